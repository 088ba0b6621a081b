package commission_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requester = shared.Requester{UserID: uuid.New(), IP: "10.0.0.2"}

func openCommission(t *testing.T, typ commission.Type, reference string) *commission.Commission {
	t.Helper()
	c, err := commission.NewCommission(commission.OpenInput{
		LoanID:    uuid.New(),
		SellerID:  uuid.New(),
		BaseValue: decimal.RequireFromString("10000.00"),
		Type:      typ,
		Reference: decimal.RequireFromString(reference),
		Period:    "03/2026",
	}, requester)
	require.NoError(t, err)
	return c
}

func TestNewCommission(t *testing.T) {
	t.Run("default plan yields one percent", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		assert.Equal(t, commission.StatusOpen, c.Status)
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(100)))
		assert.Nil(t, c.ApprovedAt)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, commission.EventTypeCommissionCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects bad period", func(t *testing.T) {
		_, err := commission.NewCommission(commission.OpenInput{
			LoanID: uuid.New(), SellerID: uuid.New(),
			BaseValue: decimal.NewFromInt(100), Type: commission.TypePercentage,
			Reference: decimal.NewFromInt(1), Period: "2026-03",
		}, requester)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("rejects missing loan", func(t *testing.T) {
		_, err := commission.NewCommission(commission.OpenInput{
			SellerID: uuid.New(), BaseValue: decimal.NewFromInt(100),
			Type: commission.TypePercentage, Reference: decimal.NewFromInt(1), Period: "03/2026",
		}, requester)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestCommission_Approve(t *testing.T) {
	now := time.Now()

	t.Run("open commission approves", func(t *testing.T) {
		c := openCommission(t, commission.TypeFixedAmount, "250.00")
		c.ClearDomainEvents()

		require.NoError(t, c.Approve(now, requester))
		assert.Equal(t, commission.StatusApproved, c.Status)
		require.NotNil(t, c.ApprovedAt)
		assert.Equal(t, 2, c.Version)

		approved, ok := c.GetDomainEvents()[0].(*commission.CommissionApprovedEvent)
		require.True(t, ok)
		assert.True(t, approved.CalculatedAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("approved and canceled reject approve and cancel", func(t *testing.T) {
		approved := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, approved.Approve(now, requester))
		canceled := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, canceled.Cancel(now, requester))

		for _, c := range []*commission.Commission{approved, canceled} {
			status := c.Status
			err := c.Approve(now, requester)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidStateTransition))
			err = c.Cancel(now, requester)
			assert.True(t, shared.IsCode(err, shared.CodeInvalidStateTransition))
			assert.Equal(t, status, c.Status)
		}
	})
}

func TestCommission_Edit(t *testing.T) {
	t.Run("open commission recalculates", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Edit(commission.TypePercentage, decimal.NewFromInt(2), "04/2026", requester))
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, commission.Period("04/2026"), c.Period)
	})

	t.Run("empty period keeps current", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Edit(commission.TypeFixedAmount, decimal.NewFromInt(80), "", requester))
		assert.Equal(t, commission.Period("03/2026"), c.Period)
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(80)))
	})

	t.Run("approved commission must use edit approved", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Approve(time.Now(), requester))
		err := c.Edit(commission.TypePercentage, decimal.NewFromInt(2), "", requester)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidStateTransition))
	})
}

func TestCommission_FollowLoan(t *testing.T) {
	t.Run("net value change recalculates", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		version := c.GetVersion()

		changed, err := c.FollowLoan(decimal.NewFromInt(8000), c.SellerID, requester)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, c.BaseValue.Equal(decimal.NewFromInt(8000)))
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, version+1, c.GetVersion())
	})

	t.Run("seller change moves the commission", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		seller := uuid.New()
		version := c.GetVersion()

		changed, err := c.FollowLoan(c.BaseValue, seller, requester)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, seller, c.SellerID)
		assert.Equal(t, version+1, c.GetVersion())
	})

	t.Run("both at once bump the version once", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		c.ClearDomainEvents()
		version := c.GetVersion()

		_, err := c.FollowLoan(decimal.NewFromInt(5000), uuid.New(), requester)
		require.NoError(t, err)
		assert.Equal(t, version+1, c.GetVersion())
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("nothing changed", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		c.ClearDomainEvents()
		version := c.GetVersion()

		changed, err := c.FollowLoan(c.BaseValue, c.SellerID, requester)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, version, c.GetVersion())
		assert.Empty(t, c.GetDomainEvents())
	})

	t.Run("approved commission does not follow", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Approve(time.Now(), requester))

		_, err := c.FollowLoan(decimal.NewFromInt(8000), c.SellerID, requester)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidStateTransition))
	})
}

func TestCommission_EditApproved(t *testing.T) {
	t.Run("recomputes and returns delta", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Approve(time.Now(), requester))
		c.ClearDomainEvents()

		delta, err := c.EditApproved(commission.TypeFixedAmount, decimal.NewFromInt(130), decimal.NewFromInt(10000), requester)
		require.NoError(t, err)
		assert.True(t, delta.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, commission.StatusApproved, c.Status)
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(130)))

		ev, ok := c.GetDomainEvents()[0].(*commission.CommissionApprovedEditedEvent)
		require.True(t, ok)
		assert.True(t, ev.Delta().Equal(decimal.NewFromInt(30)))
	})

	t.Run("uses the supplied base value", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		require.NoError(t, c.Approve(time.Now(), requester))

		delta, err := c.EditApproved(commission.TypePercentage, decimal.NewFromInt(1), decimal.NewFromInt(5000), requester)
		require.NoError(t, err)
		assert.True(t, delta.Equal(decimal.NewFromInt(-50)))
		assert.True(t, c.CalculatedAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("only approved commissions", func(t *testing.T) {
		c := openCommission(t, commission.TypePercentage, "1")
		_, err := c.EditApproved(commission.TypePercentage, decimal.NewFromInt(2), decimal.NewFromInt(10000), requester)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidStateTransition))
	})
}

func TestStatus_LocksLoan(t *testing.T) {
	assert.False(t, commission.StatusOpen.LocksLoan())
	assert.True(t, commission.StatusApproved.LocksLoan())
	assert.True(t, commission.StatusCanceled.LocksLoan())
	assert.False(t, commission.StatusPendingGeneration.IsValid())
}

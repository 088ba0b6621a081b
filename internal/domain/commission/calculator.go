package commission

import (
	"fmt"

	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Type is the commission plan shape
type Type string

const (
	TypePercentage  Type = "PERCENTAGE"
	TypeFixedAmount Type = "FIXED_AMOUNT"
)

// IsValid checks if the type is a valid Type
func (t Type) IsValid() bool {
	return t == TypePercentage || t == TypeFixedAmount
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Calculate maps a base value, plan type and reference to the commission amount.
// PERCENTAGE yields baseValue*reference/100, FIXED_AMOUNT yields reference.
// The result is rounded half-up to centavos.
func Calculate(baseValue decimal.Decimal, t Type, reference decimal.Decimal) (decimal.Decimal, error) {
	if !baseValue.IsPositive() {
		return decimal.Zero, shared.NewValidationError("Base value must be positive")
	}
	if !reference.IsPositive() {
		return decimal.Zero, shared.NewValidationError("Commission reference must be positive")
	}

	base := valueobject.NewMoneyBRL(baseValue)
	switch t {
	case TypePercentage:
		return base.Percent(reference).RoundCents().Amount(), nil
	case TypeFixedAmount:
		return valueobject.RoundCents(reference), nil
	default:
		return decimal.Zero, shared.NewValidationError(fmt.Sprintf("Invalid commission type: %s", t))
	}
}

package commission_test

import (
	"testing"

	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		typ       commission.Type
		reference string
		want      string
		wantErr   bool
	}{
		{name: "one percent of ten thousand", base: "10000.00", typ: commission.TypePercentage, reference: "1", want: "100.00"},
		{name: "fractional percent", base: "7350.00", typ: commission.TypePercentage, reference: "2.5", want: "183.75"},
		{name: "percent rounds half up", base: "100.50", typ: commission.TypePercentage, reference: "1", want: "1.01"},
		{name: "percent rounds down below half", base: "100.40", typ: commission.TypePercentage, reference: "1", want: "1.00"},
		{name: "fixed amount ignores base", base: "5000.00", typ: commission.TypeFixedAmount, reference: "250.00", want: "250.00"},
		{name: "fixed amount rounded to cents", base: "5000.00", typ: commission.TypeFixedAmount, reference: "10.005", want: "10.01"},
		{name: "zero base rejected", base: "0", typ: commission.TypePercentage, reference: "1", wantErr: true},
		{name: "negative base rejected", base: "-10", typ: commission.TypeFixedAmount, reference: "1", wantErr: true},
		{name: "zero reference rejected", base: "100", typ: commission.TypePercentage, reference: "0", wantErr: true},
		{name: "unknown type rejected", base: "100", typ: "TIERED", reference: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commission.Calculate(decimal.RequireFromString(tt.base), tt.typ, decimal.RequireFromString(tt.reference))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, shared.IsCode(err, shared.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

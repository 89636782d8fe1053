package lifecycle

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeCommission_KnownValues(t *testing.T) {
	cases := []struct {
		base, rate         string
		commission, final string
	}{
		{"10000", "5", "500.00", "10500.00"},
		{"20000", "3", "600.00", "20600.00"},
		{"15000", "4", "600.00", "15600.00"},
		{"999.99", "0", "0.00", "999.99"},
		{"100", "100", "100.00", "200.00"},
		// 33.335 rounds half away from zero
		{"666.70", "5", "33.34", "700.04"},
		{"0.10", "5", "0.01", "0.11"},
	}
	for _, tc := range cases {
		t.Run(tc.base+"@"+tc.rate, func(t *testing.T) {
			b, err := ComputeCommission(dec(tc.base), dec(tc.rate))
			require.NoError(t, err)
			require.True(t, dec(tc.commission).Equal(b.CommissionAmount), "commission got %s", b.CommissionAmount)
			require.True(t, dec(tc.final).Equal(b.FinalAmount), "final got %s", b.FinalAmount)
		})
	}
}

func TestComputeCommission_FinalIsBasePlusCommission(t *testing.T) {
	bases := []string{"0.01", "1", "1234.56", "99999.99", "10000", "47.5", "123.456"}
	rates := []string{"0", "0.5", "2.75", "3", "5", "12.5", "33.333", "100"}
	for _, b := range bases {
		for _, r := range rates {
			got, err := ComputeCommission(dec(b), dec(r))
			require.NoError(t, err)
			require.True(t, got.FinalAmount.Equal(dec(b).Add(got.CommissionAmount)), "base=%s rate=%s", b, r)
			require.LessOrEqual(t, -got.CommissionAmount.Exponent(), int32(2), "commission must have <=2dp, got %s", got.CommissionAmount)
		}
	}
}

func TestComputeCommission_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name, base, rate string
	}{
		{"zero base", "0", "5"},
		{"negative base", "-10", "5"},
		{"negative rate", "100", "-0.01"},
		{"rate over 100", "100", "100.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ComputeCommission(dec(tc.base), dec(tc.rate))
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			require.Equal(t, Breakdown{}, b)
		})
	}
}

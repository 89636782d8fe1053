package lifecycle

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Breakdown is the derived pricing of a package.
type Breakdown struct {
	CommissionAmount decimal.Decimal
	FinalAmount      decimal.Decimal
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeCommission prices a package: commission = round2(base*rate/100)
// and final = base + commission.
func ComputeCommission(baseAmount, ratePercent decimal.Decimal) (Breakdown, error) {
	if err := ValidateBaseAmount(baseAmount); err != nil {
		return Breakdown{}, err
	}
	if err := ValidateRate(ratePercent); err != nil {
		return Breakdown{}, err
	}

	commission := Round2(baseAmount.Mul(ratePercent).Div(hundred))
	return Breakdown{
		CommissionAmount: commission,
		FinalAmount:      baseAmount.Add(commission),
	}, nil
}

func ValidateBaseAmount(base decimal.Decimal) error {
	if base.LessThanOrEqual(zero) {
		return invalid("base_amount", "must be greater than zero")
	}
	return nil
}

func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThan(zero) || rate.GreaterThan(hundred) {
		return invalid("commission_percent", "must be between 0 and 100")
	}
	return nil
}

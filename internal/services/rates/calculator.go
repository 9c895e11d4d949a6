package rates

import (
	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// Convert applies a rate to an amount. Pure multiplication; rounding is left
// to the presentation layer.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// CompareRates quantifies the outcome of using a custom rate instead of the
// official one for a given amount.
//
// isSellingBase is true when the base currency is being converted away: a
// higher custom rate then yields more of the target currency and counts as a
// saving. When buying the base currency, a lower custom rate costs less.
func CompareRates(official, custom, amount decimal.Decimal, isSellingBase bool) models.RateComparison {
	officialAmount := amount.Mul(official)
	customAmount := amount.Mul(custom)

	diff := customAmount.Sub(officialAmount).Abs()

	// Percent difference is undefined against a zero official rate; report 0.
	pct := decimal.Zero
	if !official.IsZero() {
		pct = custom.Sub(official).Div(official).Abs().Mul(oneHundred)
	}

	var saving bool
	if isSellingBase {
		saving = customAmount.GreaterThan(officialAmount)
	} else {
		saving = customAmount.LessThan(officialAmount)
	}

	return models.RateComparison{
		OfficialAmount:    officialAmount,
		CustomAmount:      customAmount,
		Difference:        diff,
		DifferencePercent: pct,
		IsSaving:          saving,
	}
}

// CalculateSavings returns amount * (official - custom), expressed in the
// target currency of the conversion. Positive means money saved, negative
// means extra cost paid. The sign convention is load-bearing: callers depend
// on it to tell which side of the trade came out ahead.
func CalculateSavings(amount, official, custom decimal.Decimal) decimal.Decimal {
	return amount.Mul(official.Sub(custom))
}

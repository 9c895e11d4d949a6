package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// Compile-time interface check
var _ interfaces.RateService = (*Service)(nil)

// Service implements RateService on top of the resolver and the pure
// calculator functions. Resolution and conversion are read-only and safe for
// concurrent use.
type Service struct {
	resolver *Resolver
	logger   *common.Logger
}

// NewService creates a new rate service.
func NewService(rates interfaces.RateStore, intermediates []string, logger *common.Logger) *Service {
	return &Service{
		resolver: NewResolver(rates, intermediates, logger),
		logger:   logger,
	}
}

// Resolve finds the best available rate for (from, to).
func (s *Service) Resolve(ctx context.Context, from, to string) (*models.RateResolution, error) {
	return s.resolver.Resolve(ctx, from, to)
}

// Convert applies a rate to an amount.
func (s *Service) Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return Convert(amount, rate)
}

// CompareRates quantifies a custom rate against the official one.
func (s *Service) CompareRates(official, custom, amount decimal.Decimal, isSellingBase bool) models.RateComparison {
	return CompareRates(official, custom, amount, isSellingBase)
}

// CalculateSavings returns amount * (official - custom).
func (s *Service) CalculateSavings(amount, official, custom decimal.Decimal) decimal.Decimal {
	return CalculateSavings(amount, official, custom)
}

// ConvertManyToBase converts a batch of amounts into baseCode, resolving each
// distinct source currency exactly once. Items whose currency has no
// resolvable rate pass through with their original amount and a nil rate so
// callers can tell them apart from genuine 1:1 conversions.
func (s *Service) ConvertManyToBase(ctx context.Context, items []interfaces.ConversionItem, baseCode string) ([]interfaces.ConvertedItem, error) {
	baseCode = models.NormalizeCode(baseCode)
	if !models.ValidCurrencyCode(baseCode) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCurrencyCode, baseCode)
	}

	resolved := make(map[string]*models.RateResolution)
	out := make([]interfaces.ConvertedItem, 0, len(items))

	for _, item := range items {
		code := models.NormalizeCode(item.CurrencyCode)
		if !models.ValidCurrencyCode(code) {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCurrencyCode, item.CurrencyCode)
		}

		res, seen := resolved[code]
		if !seen {
			var err error
			res, err = s.resolver.Resolve(ctx, code, baseCode)
			if err != nil {
				return nil, err
			}
			resolved[code] = res
		}

		converted := interfaces.ConvertedItem{
			ConversionItem: interfaces.ConversionItem{
				Amount:       item.Amount,
				CurrencyCode: code,
			},
		}

		if res == nil {
			// No rate: pass the amount through unconverted.
			converted.ConvertedAmount = item.Amount
			converted.Rate = nil
		} else {
			rate := res.Rate
			converted.ConvertedAmount = Convert(item.Amount, rate)
			converted.Rate = &rate
			converted.Resolution = res
		}

		out = append(out, converted)
	}

	unresolvedCount := 0
	for _, res := range resolved {
		if res == nil {
			unresolvedCount++
		}
	}
	if unresolvedCount > 0 {
		s.logger.Warn().
			Str("base", baseCode).
			Int("currencies", len(resolved)).
			Int("unresolved", unresolvedCount).
			Msg("Some currencies could not be converted to base")
	}

	return out, nil
}

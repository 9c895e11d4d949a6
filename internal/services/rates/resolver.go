// Package rates provides exchange rate resolution and conversion math
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// Resolver finds the most recent usable rate for a currency pair using a
// fallback chain: identity, direct quote, inverse of the reverse quote, then
// a two-hop route through a configured intermediate currency.
type Resolver struct {
	rates         interfaces.RateStore
	intermediates []string
	logger        *common.Logger
}

// NewResolver creates a resolver. intermediates is the ordered routing table;
// the first intermediate producing a path wins, so ordering must be stable.
func NewResolver(rates interfaces.RateStore, intermediates []string, logger *common.Logger) *Resolver {
	return &Resolver{
		rates:         rates,
		intermediates: intermediates,
		logger:        logger,
	}
}

// Resolve returns the best available rate for (from, to), or (nil, nil) when
// no path resolves. Absence is a valid outcome, not an error.
func (r *Resolver) Resolve(ctx context.Context, from, to string) (*models.RateResolution, error) {
	from = models.NormalizeCode(from)
	to = models.NormalizeCode(to)

	if !models.ValidCurrencyCode(from) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCurrencyCode, from)
	}
	if !models.ValidCurrencyCode(to) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCurrencyCode, to)
	}

	if from == to {
		return &models.RateResolution{
			FromCode: from,
			ToCode:   to,
			Rate:     decimal.NewFromInt(1),
			Source:   models.RateSourceOfficial,
		}, nil
	}

	res, err := r.resolveLeg(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}

	// Two-hop routing: one intermediate only, first match in priority order
	// wins. Each leg may itself be direct or inverse, never another hop.
	for _, via := range r.intermediates {
		if via == from || via == to {
			continue
		}

		leg1, err := r.resolveLeg(ctx, from, via)
		if err != nil {
			return nil, err
		}
		if leg1 == nil {
			continue
		}

		leg2, err := r.resolveLeg(ctx, via, to)
		if err != nil {
			return nil, err
		}
		if leg2 == nil {
			continue
		}

		combined := &models.RateResolution{
			FromCode:        from,
			ToCode:          to,
			Rate:            leg1.Rate.Mul(leg2.Rate),
			Source:          leg1.Source,
			ViaIntermediate: via,
			FetchedAt:       olderOf(leg1, leg2),
		}

		r.logger.Debug().
			Str("from", from).
			Str("to", to).
			Str("via", via).
			Str("rate", combined.Rate.String()).
			Msg("Rate resolved via intermediate")

		return combined, nil
	}

	return nil, nil
}

// resolveLeg resolves a single hop: direct quote first, then the inverse of
// the reverse quote. Zero reverse rates are skipped rather than inverted.
func (r *Resolver) resolveLeg(ctx context.Context, from, to string) (*models.RateResolution, error) {
	direct, err := r.rates.Latest(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", from, to, err)
	}
	if direct != nil {
		return &models.RateResolution{
			FromCode:  from,
			ToCode:    to,
			Rate:      direct.Rate,
			Source:    direct.Source,
			FetchedAt: direct.FetchedAt,
		}, nil
	}

	reverse, err := r.rates.Latest(ctx, to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rate %s/%s: %w", to, from, err)
	}
	if reverse != nil && !reverse.Rate.IsZero() {
		return &models.RateResolution{
			FromCode:  from,
			ToCode:    to,
			Rate:      decimal.NewFromInt(1).Div(reverse.Rate),
			Source:    reverse.Source,
			IsInverse: true,
			FetchedAt: reverse.FetchedAt,
		}, nil
	}

	return nil, nil
}

// olderOf returns the older FetchedAt of two legs, so a composed rate never
// looks fresher than its stalest input.
func olderOf(a, b *models.RateResolution) time.Time {
	if a.FetchedAt.Before(b.FetchedAt) {
		return a.FetchedAt
	}
	return b.FetchedAt
}

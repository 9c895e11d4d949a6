package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource identifies where a rate quote came from.
type RateSource string

const (
	RateSourceOfficial   RateSource = "official"
	RateSourcePeerToPeer RateSource = "peer_to_peer"
	RateSourceManual     RateSource = "manual"
)

// validRateSources lists all accepted quote sources.
var validRateSources = map[RateSource]bool{
	RateSourceOfficial:   true,
	RateSourcePeerToPeer: true,
	RateSourceManual:     true,
}

// ValidRateSource returns true if s is a known rate source.
func ValidRateSource(s RateSource) bool {
	return validRateSources[s]
}

// RateQuote is one timestamped exchange rate observation. Quotes are
// append-only; the latest FetchedAt per (from, to) pair wins.
type RateQuote struct {
	ID        string          `json:"id"`
	FromCode  string          `json:"from_code"`
	ToCode    string          `json:"to_code"`
	Rate      decimal.Decimal `json:"rate"`
	Source    RateSource      `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// Validate checks the quote's field values.
func (q *RateQuote) Validate() error {
	if !ValidCurrencyCode(q.FromCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrencyCode, q.FromCode)
	}
	if !ValidCurrencyCode(q.ToCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrencyCode, q.ToCode)
	}
	if q.FromCode == q.ToCode {
		return fmt.Errorf("from and to currency must differ")
	}
	if !q.Rate.IsPositive() {
		return fmt.Errorf("rate must be positive, got %s", q.Rate)
	}
	if !ValidRateSource(q.Source) {
		return fmt.Errorf("invalid rate source %q; must be official, peer_to_peer, or manual", q.Source)
	}
	if q.FetchedAt.IsZero() {
		return fmt.Errorf("fetched_at is required")
	}
	return nil
}

// NormalizeCode uppercases and trims a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RateResolution is the outcome of a successful rate lookup, including
// provenance so downstream calculations are reproducible and auditable.
type RateResolution struct {
	FromCode string          `json:"from_code"`
	ToCode   string          `json:"to_code"`
	Rate     decimal.Decimal `json:"rate"`
	Source   RateSource      `json:"source"`

	// IsInverse is set when the rate was algebraically flipped from a quote
	// stored in the opposite direction.
	IsInverse bool `json:"is_inverse"`

	// ViaIntermediate names the routing currency for two-hop resolutions.
	ViaIntermediate string `json:"via_intermediate,omitempty"`

	// FetchedAt is the timestamp of the underlying quote. For two-hop
	// resolutions it is the older of the two legs. Zero for identity.
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// RateComparison quantifies a custom rate against the official one for a
// given amount and trade direction.
type RateComparison struct {
	OfficialAmount    decimal.Decimal `json:"official_amount"`
	CustomAmount      decimal.Decimal `json:"custom_amount"`
	Difference        decimal.Decimal `json:"difference"`
	DifferencePercent decimal.Decimal `json:"difference_percent"`
	IsSaving          bool            `json:"is_saving"`
}

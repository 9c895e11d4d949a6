package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds funds in a single currency. TotalBalance is mutated only by
// ledger operations; available balance is always derived, never stored.
type Account struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currency_code"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccountBalance is the projected view of an account: blocked is the sum of
// currentAmount over the account's active and completed budgets, available is
// total minus blocked clamped at zero. Recomputed on every read.
type AccountBalance struct {
	AccountID        string          `json:"account_id"`
	CurrencyCode     string          `json:"currency_code"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	BlockedBalance   decimal.Decimal `json:"blocked_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

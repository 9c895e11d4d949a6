// Package interfaces defines service contracts for Cambio
package interfaces

import (
	"context"

	"github.com/cambiolabs/cambio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	Currencies() CurrencyStore
	Rates() RateStore
	Accounts() AccountStore
	Budgets() BudgetStore

	// Lifecycle
	Close() error
}

// CurrencyStore manages currencies and the single-base invariant.
type CurrencyStore interface {
	Save(ctx context.Context, currency *models.Currency) error
	Get(ctx context.Context, code string) (*models.Currency, error)
	List(ctx context.Context) ([]*models.Currency, error)

	// SetBase atomically clears the previous base currency and marks code as
	// the new base in a single transaction.
	SetBase(ctx context.Context, code string) error
	GetBase(ctx context.Context) (*models.Currency, error)
}

// RateStore is the append-only collection of rate quotes. The core only
// reads the latest quote per pair; quotes are never updated or deleted.
type RateStore interface {
	Append(ctx context.Context, quote *models.RateQuote) error

	// Latest returns the most recent quote for (from, to) across all sources,
	// or (nil, nil) when no quote exists. Absence is not an error.
	Latest(ctx context.Context, from, to string) (*models.RateQuote, error)

	// History returns quotes for (from, to) ordered newest first.
	History(ctx context.Context, from, to string, limit int) ([]*models.RateQuote, error)
}

// AccountStore manages accounts.
type AccountStore interface {
	Save(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}

// BudgetStore manages budgets and their contribution audit trail.
type BudgetStore interface {
	Save(ctx context.Context, budget *models.Budget) error
	Get(ctx context.Context, id string) (*models.Budget, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Budget, error)
	List(ctx context.Context) ([]*models.Budget, error)

	// Contributions returns the budget's audit trail ordered oldest first.
	Contributions(ctx context.Context, budgetID string) ([]*models.BudgetContribution, error)

	// ApplyContribution persists a ledger mutation as one atomic unit: the
	// budget row, the account row, and the contribution record are written in
	// a single transaction. account and contrib may be nil when only the
	// budget row changes.
	ApplyContribution(ctx context.Context, budget *models.Budget, account *models.Account, contrib *models.BudgetContribution) error
}

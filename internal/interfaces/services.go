// Package interfaces defines service contracts for Cambio
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/models"
)

// RateService resolves exchange rates and performs conversion math.
type RateService interface {
	// Resolve finds the best available rate for (from, to) using the
	// identity → direct → inverse → two-hop fallback chain. Returns
	// (nil, nil) when no path resolves — callers must branch on absence.
	Resolve(ctx context.Context, from, to string) (*models.RateResolution, error)

	// Convert applies a rate to an amount. No rounding; presentation concern.
	Convert(amount, rate decimal.Decimal) decimal.Decimal

	// CompareRates quantifies a custom rate against the official one.
	// isSellingBase is true when the base currency is being converted away.
	CompareRates(official, custom, amount decimal.Decimal, isSellingBase bool) models.RateComparison

	// CalculateSavings returns amount * (official - custom), in the target
	// currency. Positive means money saved, negative means extra cost.
	CalculateSavings(amount, official, custom decimal.Decimal) decimal.Decimal

	// ConvertManyToBase converts a batch of amounts to the base currency,
	// resolving each distinct source currency once. Items with no resolvable
	// rate pass through unconverted with a nil rate.
	ConvertManyToBase(ctx context.Context, items []ConversionItem, baseCode string) ([]ConvertedItem, error)
}

// ConversionItem is one amount to convert to the base currency.
type ConversionItem struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// ConvertedItem is a ConversionItem with its conversion outcome. Rate is nil
// when no rate resolved; ConvertedAmount then carries the original amount and
// must not be treated as a 1:1 conversion.
type ConvertedItem struct {
	ConversionItem
	ConvertedAmount decimal.Decimal        `json:"converted_amount"`
	Rate            *decimal.Decimal       `json:"rate"`
	Resolution      *models.RateResolution `json:"resolution,omitempty"`
}

// BudgetService owns the budget ledger: the only code path that moves funds
// between account balances and budget blocked balances.
type BudgetService interface {
	CreateBudget(ctx context.Context, input CreateBudgetInput) (*models.Budget, error)
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	ListBudgets(ctx context.Context, accountID string) ([]*models.Budget, error)
	Contributions(ctx context.Context, budgetID string) ([]*models.BudgetContribution, error)

	// Contribute blocks amount from the source account into the budget as a
	// single atomic unit. Completes goal budgets that reach their target.
	Contribute(ctx context.Context, budgetID, fromAccountID string, amount decimal.Decimal, description string) (*models.Budget, error)

	// Withdraw releases amount from the budget back to the destination
	// account. Allowed from active and completed budgets.
	Withdraw(ctx context.Context, budgetID, toAccountID string, amount decimal.Decimal, description string) (*models.Budget, error)

	// Cancel terminates the budget, releasing any remaining blocked balance
	// back to the owning account.
	Cancel(ctx context.Context, budgetID string) (*models.Budget, error)
}

// CreateBudgetInput configures budget creation.
type CreateBudgetInput struct {
	AccountID    string            `json:"account_id"`
	Name         string            `json:"name"`
	Type         models.BudgetType `json:"type"`
	TargetAmount *decimal.Decimal  `json:"target_amount,omitempty"`
}

// BalanceService derives account balance projections.
type BalanceService interface {
	ProjectAccount(ctx context.Context, accountID string) (*models.AccountBalance, error)

	// ProjectAccounts projects every account, grouping budgets by account
	// first to avoid a per-account budget scan.
	ProjectAccounts(ctx context.Context) ([]*models.AccountBalance, error)
}

// Package balance derives account balance projections from budgets
package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// Compile-time interface check
var _ interfaces.BalanceService = (*Service)(nil)

// Service implements BalanceService. Projections are recomputed on every
// read; nothing here is persisted, so blocked and available balances can
// never drift from the underlying budgets.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new balance service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ProjectAccount derives the account's blocked and available balances.
// Available is clamped at zero: external mutations can draw the account
// below its blocked commitments, and a negative figure must never surface.
func (s *Service) ProjectAccount(ctx context.Context, accountID string) (*models.AccountBalance, error) {
	account, err := s.storage.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", accountID, err)
	}

	budgets, err := s.storage.Budgets().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for account %q: %w", accountID, err)
	}

	return project(account, budgets), nil
}

// ProjectAccounts derives balances for every account. Budgets are fetched
// once and grouped by account up front instead of scanning per account.
func (s *Service) ProjectAccounts(ctx context.Context) ([]*models.AccountBalance, error) {
	accounts, err := s.storage.Accounts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	budgets, err := s.storage.Budgets().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	byAccount := make(map[string][]*models.Budget)
	for _, b := range budgets {
		byAccount[b.AccountID] = append(byAccount[b.AccountID], b)
	}

	balances := make([]*models.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		balances = append(balances, project(account, byAccount[account.ID]))
	}
	return balances, nil
}

// project computes the balance view for one account. Cancelled budgets
// contribute nothing to the blocked total.
func project(account *models.Account, budgets []*models.Budget) *models.AccountBalance {
	blocked := decimal.Zero
	for _, b := range budgets {
		if b.CountsAsBlocked() {
			blocked = blocked.Add(b.CurrentAmount)
		}
	}

	available := account.TotalBalance.Sub(blocked)
	if available.IsNegative() {
		available = decimal.Zero
	}

	return &models.AccountBalance{
		AccountID:        account.ID,
		CurrencyCode:     account.CurrencyCode,
		TotalBalance:     account.TotalBalance,
		BlockedBalance:   blocked,
		AvailableBalance: available,
	}
}

// Package budget implements the budget ledger: the only code path that moves
// funds between account balances and budget blocked balances.
package budget

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// Compile-time interface check
var _ interfaces.BudgetService = (*Service)(nil)

// Service implements BudgetService. Mutations serialize per budget via keyed
// mutexes; persistence of each mutation is a single storage transaction so a
// crash can never leave the budget and account halves out of step.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	locks   sync.Map // budget ID -> *sync.Mutex
	now     func() time.Time
}

// NewService creates a new budget service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// generateID returns a unique ID with the given prefix + 8 hex chars.
func generateID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return prefix + "_00000000"
	}
	return prefix + "_" + hex.EncodeToString(b)
}

// lockBudget acquires the per-budget mutex and returns its unlock func.
func (s *Service) lockBudget(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateBudget creates an active budget with zero blocked balance. The budget
// inherits its account's currency; goal budgets require a positive target.
func (s *Service) CreateBudget(ctx context.Context, input interfaces.CreateBudgetInput) (*models.Budget, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("budget name is required: %w", models.ErrInvalidInput)
	}
	if !models.ValidBudgetType(input.Type) {
		return nil, fmt.Errorf("budget type %q must be goal or envelope: %w", input.Type, models.ErrInvalidInput)
	}
	if input.Type == models.BudgetTypeGoal {
		if input.TargetAmount == nil || !input.TargetAmount.IsPositive() {
			return nil, fmt.Errorf("goal budgets require a positive target amount: %w", models.ErrInvalidAmount)
		}
	}
	if input.TargetAmount != nil && !input.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("target amount %s must be positive: %w", input.TargetAmount, models.ErrInvalidAmount)
	}

	account, err := s.storage.Accounts().Get(ctx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", input.AccountID, err)
	}

	now := s.now()
	budget := &models.Budget{
		ID:            generateID("bud"),
		AccountID:     account.ID,
		CurrencyCode:  account.CurrencyCode,
		Name:          name,
		Type:          input.Type,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		Status:        models.BudgetStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.Budgets().Save(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.logger.Info().Str("id", budget.ID).Str("account", account.ID).
		Str("type", string(budget.Type)).Str("name", name).Msg("Budget created")
	return budget, nil
}

// GetBudget retrieves a budget by ID.
func (s *Service) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	return s.storage.Budgets().Get(ctx, id)
}

// ListBudgets lists budgets, optionally filtered to one account.
func (s *Service) ListBudgets(ctx context.Context, accountID string) ([]*models.Budget, error) {
	if accountID == "" {
		return s.storage.Budgets().List(ctx)
	}
	return s.storage.Budgets().ListByAccount(ctx, accountID)
}

// Contributions returns the budget's audit trail ordered oldest first.
func (s *Service) Contributions(ctx context.Context, budgetID string) ([]*models.BudgetContribution, error) {
	return s.storage.Budgets().Contributions(ctx, budgetID)
}

// Contribute blocks amount from the source account into the budget. All
// checks run before any mutation; the budget update, account update, and
// contribution record are then applied as one transaction.
func (s *Service) Contribute(ctx context.Context, budgetID, fromAccountID string, amount decimal.Decimal, description string) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("contribution of %s rejected: %w", amount, models.ErrInvalidAmount)
	}

	unlock := s.lockBudget(budgetID)
	defer unlock()

	budget, err := s.storage.Budgets().Get(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("budget %q: %w", budgetID, err)
	}
	if !budget.CanContribute() {
		return nil, fmt.Errorf("budget %q is %s: %w", budgetID, budget.Status, models.ErrInvalidBudgetState)
	}

	account, err := s.storage.Accounts().Get(ctx, fromAccountID)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", fromAccountID, err)
	}
	if account.CurrencyCode != budget.CurrencyCode {
		return nil, fmt.Errorf("account is %s, budget is %s: %w",
			account.CurrencyCode, budget.CurrencyCode, models.ErrCurrencyMismatch)
	}
	if account.TotalBalance.LessThan(amount) {
		return nil, fmt.Errorf("balance %s < contribution %s: %w",
			account.TotalBalance, amount, models.ErrInsufficientFunds)
	}

	now := s.now()
	contrib := &models.BudgetContribution{
		ID:          generateID("bc"),
		BudgetID:    budget.ID,
		AccountID:   account.ID,
		Amount:      amount,
		Date:        now,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	budget.CurrentAmount = budget.CurrentAmount.Add(amount)
	budget.Status = models.NextStatusAfterContribution(budget)
	budget.UpdatedAt = now
	account.TotalBalance = account.TotalBalance.Sub(amount)
	account.UpdatedAt = now

	if err := s.storage.Budgets().ApplyContribution(ctx, budget, account, contrib); err != nil {
		return nil, fmt.Errorf("failed to apply contribution: %w", err)
	}

	s.logger.Info().Str("budget", budget.ID).Str("account", account.ID).
		Str("amount", amount.String()).Str("status", string(budget.Status)).
		Msg("Contribution applied")
	return budget, nil
}

// Withdraw releases amount from the budget back to the destination account.
// Allowed from active and completed budgets; completion does not revert when
// the blocked balance drops back below target.
func (s *Service) Withdraw(ctx context.Context, budgetID, toAccountID string, amount decimal.Decimal, description string) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("withdrawal of %s rejected: %w", amount, models.ErrInvalidAmount)
	}

	unlock := s.lockBudget(budgetID)
	defer unlock()

	budget, err := s.storage.Budgets().Get(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("budget %q: %w", budgetID, err)
	}
	if !budget.CanWithdraw() {
		return nil, fmt.Errorf("budget %q is %s: %w", budgetID, budget.Status, models.ErrInvalidBudgetState)
	}
	if budget.CurrentAmount.LessThan(amount) {
		return nil, fmt.Errorf("blocked %s < withdrawal %s: %w",
			budget.CurrentAmount, amount, models.ErrInsufficientBlocked)
	}

	account, err := s.storage.Accounts().Get(ctx, toAccountID)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", toAccountID, err)
	}
	if account.CurrencyCode != budget.CurrencyCode {
		return nil, fmt.Errorf("account is %s, budget is %s: %w",
			account.CurrencyCode, budget.CurrencyCode, models.ErrCurrencyMismatch)
	}

	now := s.now()
	contrib := &models.BudgetContribution{
		ID:          generateID("bc"),
		BudgetID:    budget.ID,
		AccountID:   account.ID,
		Amount:      amount.Neg(),
		Date:        now,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	budget.CurrentAmount = budget.CurrentAmount.Sub(amount)
	budget.Status = models.NextStatusAfterWithdrawal(budget)
	budget.UpdatedAt = now
	account.TotalBalance = account.TotalBalance.Add(amount)
	account.UpdatedAt = now

	if err := s.storage.Budgets().ApplyContribution(ctx, budget, account, contrib); err != nil {
		return nil, fmt.Errorf("failed to apply withdrawal: %w", err)
	}

	s.logger.Info().Str("budget", budget.ID).Str("account", account.ID).
		Str("amount", amount.String()).Msg("Withdrawal applied")
	return budget, nil
}

// Cancel terminates the budget. Any remaining blocked balance is released
// back to the owning account in the same transaction as the status change,
// recorded as a final withdrawal so the audit trail still reconciles.
func (s *Service) Cancel(ctx context.Context, budgetID string) (*models.Budget, error) {
	unlock := s.lockBudget(budgetID)
	defer unlock()

	budget, err := s.storage.Budgets().Get(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("budget %q: %w", budgetID, err)
	}
	if budget.Status == models.BudgetStatusCancelled {
		return nil, fmt.Errorf("budget %q is already cancelled: %w", budgetID, models.ErrInvalidBudgetState)
	}

	now := s.now()
	var account *models.Account
	var contrib *models.BudgetContribution

	if budget.CurrentAmount.IsPositive() {
		account, err = s.storage.Accounts().Get(ctx, budget.AccountID)
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", budget.AccountID, err)
		}

		contrib = &models.BudgetContribution{
			ID:          generateID("bc"),
			BudgetID:    budget.ID,
			AccountID:   account.ID,
			Amount:      budget.CurrentAmount.Neg(),
			Date:        now,
			Description: "budget cancelled, blocked balance released",
			CreatedAt:   now,
		}

		account.TotalBalance = account.TotalBalance.Add(budget.CurrentAmount)
		account.UpdatedAt = now
		budget.CurrentAmount = decimal.Zero
	}

	budget.Status = models.BudgetStatusCancelled
	budget.UpdatedAt = now

	if err := s.storage.Budgets().ApplyContribution(ctx, budget, account, contrib); err != nil {
		return nil, fmt.Errorf("failed to cancel budget: %w", err)
	}

	released := "0"
	if contrib != nil {
		released = contrib.Amount.Neg().String()
	}
	s.logger.Info().Str("budget", budget.ID).Str("released", released).Msg("Budget cancelled")
	return budget, nil
}

package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/models"
)

// BudgetStore persists budgets and their contribution audit trail.
type BudgetStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewBudgetStore(db *surrealdb.DB, logger *common.Logger) *BudgetStore {
	return &BudgetStore{
		db:     db,
		logger: logger,
	}
}

func (s *BudgetStore) Save(ctx context.Context, budget *models.Budget) error {
	sql := "UPSERT $rid CONTENT $budget"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("budget", budget.ID),
		"budget": budget,
	}
	if _, err := surrealdb.Query[[]models.Budget](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save budget %s: %w", budget.ID, err)
	}
	return nil
}

func (s *BudgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	budget, err := surrealdb.Select[models.Budget](ctx, s.db, surrealmodels.NewRecordID("budget", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select budget: %w", err)
	}
	if budget == nil || budget.ID == "" {
		return nil, fmt.Errorf("budget %q: %w", id, models.ErrNotFound)
	}
	return budget, nil
}

func (s *BudgetStore) ListByAccount(ctx context.Context, accountID string) ([]*models.Budget, error) {
	sql := "SELECT * FROM budget WHERE account_id = $account_id ORDER BY created_at ASC"
	vars := map[string]any{"account_id": accountID}

	results, err := surrealdb.Query[[]models.Budget](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for account %s: %w", accountID, err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Budget
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *BudgetStore) List(ctx context.Context) ([]*models.Budget, error) {
	sql := "SELECT * FROM budget ORDER BY created_at ASC"

	results, err := surrealdb.Query[[]models.Budget](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Budget
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *BudgetStore) Contributions(ctx context.Context, budgetID string) ([]*models.BudgetContribution, error) {
	sql := "SELECT * FROM budget_contribution WHERE budget_id = $budget_id ORDER BY created_at ASC"
	vars := map[string]any{"budget_id": budgetID}

	results, err := surrealdb.Query[[]models.BudgetContribution](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions for budget %s: %w", budgetID, err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.BudgetContribution
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// ApplyContribution writes the budget row, account row, and contribution
// record as one SurrealDB transaction. A failure anywhere rolls back the
// whole unit, so blocked and account balances can never diverge.
// account and contrib may be nil when only the budget row changes.
func (s *BudgetStore) ApplyContribution(ctx context.Context, budget *models.Budget, account *models.Account, contrib *models.BudgetContribution) error {
	sql := "BEGIN TRANSACTION;\nUPDATE $budget_rid CONTENT $budget;"
	vars := map[string]any{
		"budget_rid": surrealmodels.NewRecordID("budget", budget.ID),
		"budget":     budget,
	}

	if account != nil {
		sql += "\nUPDATE $account_rid CONTENT $account;"
		vars["account_rid"] = surrealmodels.NewRecordID("account", account.ID)
		vars["account"] = account
	}

	if contrib != nil {
		sql += "\nCREATE $contrib_rid CONTENT $contrib;"
		vars["contrib_rid"] = surrealmodels.NewRecordID("budget_contribution", contrib.ID)
		vars["contrib"] = contrib
	}

	sql += "\nCOMMIT TRANSACTION;"

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to apply ledger change for budget %s: %w", budget.ID, err)
	}
	return nil
}

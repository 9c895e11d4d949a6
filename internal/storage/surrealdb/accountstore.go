package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/models"
)

// AccountStore persists accounts keyed by ID.
type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

func (s *AccountStore) Save(ctx context.Context, account *models.Account) error {
	sql := "UPSERT $rid CONTENT $account"
	vars := map[string]any{
		"rid":     surrealmodels.NewRecordID("account", account.ID),
		"account": account,
	}
	if _, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.ID, err)
	}
	return nil
}

func (s *AccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if account == nil || account.ID == "" {
		return nil, fmt.Errorf("account %q: %w", id, models.ErrNotFound)
	}
	return account, nil
}

func (s *AccountStore) List(ctx context.Context) ([]*models.Account, error) {
	sql := "SELECT * FROM account ORDER BY created_at ASC"

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Account
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

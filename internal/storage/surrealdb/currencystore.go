package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/models"
)

// CurrencyStore persists currencies keyed by code and owns the single-base
// invariant.
type CurrencyStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewCurrencyStore(db *surrealdb.DB, logger *common.Logger) *CurrencyStore {
	return &CurrencyStore{
		db:     db,
		logger: logger,
	}
}

func (s *CurrencyStore) Save(ctx context.Context, currency *models.Currency) error {
	sql := "UPSERT $rid CONTENT $currency"
	vars := map[string]any{
		"rid":      surrealmodels.NewRecordID("currency", currency.Code),
		"currency": currency,
	}
	if _, err := surrealdb.Query[[]models.Currency](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save currency %s: %w", currency.Code, err)
	}
	return nil
}

func (s *CurrencyStore) Get(ctx context.Context, code string) (*models.Currency, error) {
	currency, err := surrealdb.Select[models.Currency](ctx, s.db, surrealmodels.NewRecordID("currency", code))
	if err != nil {
		return nil, fmt.Errorf("failed to select currency: %w", err)
	}
	if currency == nil || currency.Code == "" {
		return nil, fmt.Errorf("currency %q: %w", code, models.ErrNotFound)
	}
	return currency, nil
}

func (s *CurrencyStore) List(ctx context.Context) ([]*models.Currency, error) {
	sql := "SELECT * FROM currency ORDER BY code ASC"

	results, err := surrealdb.Query[[]models.Currency](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Currency
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// SetBase clears the previous base currency and marks code as the new base
// in one transaction, so at no point are there zero or two base currencies
// visible to readers.
func (s *CurrencyStore) SetBase(ctx context.Context, code string) error {
	if _, err := s.Get(ctx, code); err != nil {
		return err
	}

	sql := `BEGIN TRANSACTION;
UPDATE currency SET is_base = false WHERE is_base = true;
UPDATE $rid SET is_base = true;
COMMIT TRANSACTION;`
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("currency", code),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to set base currency %s: %w", code, err)
	}

	s.logger.Info().Str("code", code).Msg("Base currency set")
	return nil
}

func (s *CurrencyStore) GetBase(ctx context.Context) (*models.Currency, error) {
	sql := "SELECT * FROM currency WHERE is_base = true LIMIT 1"

	results, err := surrealdb.Query[[]models.Currency](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query base currency: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, fmt.Errorf("base currency: %w", models.ErrNotFound)
}

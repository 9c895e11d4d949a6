package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/models"
)

// RateStore persists rate quotes. Append-only: quotes are never updated or
// deleted, and the latest FetchedAt per pair wins on read.
type RateStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewRateStore(db *surrealdb.DB, logger *common.Logger) *RateStore {
	return &RateStore{
		db:     db,
		logger: logger,
	}
}

func (s *RateStore) Append(ctx context.Context, quote *models.RateQuote) error {
	if err := quote.Validate(); err != nil {
		return fmt.Errorf("invalid rate quote: %w", err)
	}
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now()
	}

	sql := "CREATE $rid CONTENT $quote"
	vars := map[string]any{
		"rid":   surrealmodels.NewRecordID("rate_quote", quote.ID),
		"quote": quote,
	}

	if _, err := surrealdb.Query[[]models.RateQuote](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to append rate quote: %w", err)
	}

	s.logger.Debug().Str("from", quote.FromCode).Str("to", quote.ToCode).
		Str("rate", quote.Rate.String()).Str("source", string(quote.Source)).
		Msg("Rate quote appended")
	return nil
}

// Latest returns the most recent quote for (from, to) across all sources,
// or (nil, nil) when the pair has never been quoted.
func (s *RateStore) Latest(ctx context.Context, from, to string) (*models.RateQuote, error) {
	sql := "SELECT * FROM rate_quote WHERE from_code = $from AND to_code = $to ORDER BY fetched_at DESC LIMIT 1"
	vars := map[string]any{
		"from": from,
		"to":   to,
	}

	results, err := surrealdb.Query[[]models.RateQuote](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rate %s/%s: %w", from, to, err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, nil
}

// History returns quotes for (from, to) ordered newest first.
func (s *RateStore) History(ctx context.Context, from, to string, limit int) ([]*models.RateQuote, error) {
	sql := "SELECT * FROM rate_quote WHERE from_code = $from AND to_code = $to ORDER BY fetched_at DESC"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	vars := map[string]any{
		"from": from,
		"to":   to,
	}

	results, err := surrealdb.Query[[]models.RateQuote](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history %s/%s: %w", from, to, err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.RateQuote
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

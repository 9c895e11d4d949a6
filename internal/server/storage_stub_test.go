package server

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// memStorage is a full in-memory StorageManager so handlers can be exercised
// through the real services without a database.
type memStorage struct {
	mu         sync.Mutex
	currencies map[string]*models.Currency
	quotes     []*models.RateQuote
	accounts   map[string]*models.Account
	budgets    map[string]*models.Budget
	contribs   map[string][]*models.BudgetContribution
}

var _ interfaces.StorageManager = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{
		currencies: make(map[string]*models.Currency),
		accounts:   make(map[string]*models.Account),
		budgets:    make(map[string]*models.Budget),
		contribs:   make(map[string][]*models.BudgetContribution),
	}
}

func (m *memStorage) Currencies() interfaces.CurrencyStore { return (*memCurrencyStore)(m) }
func (m *memStorage) Rates() interfaces.RateStore          { return (*memRateStore)(m) }
func (m *memStorage) Accounts() interfaces.AccountStore    { return (*memAccountStore)(m) }
func (m *memStorage) Budgets() interfaces.BudgetStore      { return (*memBudgetStore)(m) }
func (m *memStorage) Close() error                         { return nil }

type memCurrencyStore memStorage

func (m *memCurrencyStore) Save(ctx context.Context, c *models.Currency) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.currencies[c.Code] = &cp
	return nil
}

func (m *memCurrencyStore) Get(ctx context.Context, code string) (*models.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.currencies[code]
	if !ok {
		return nil, fmt.Errorf("currency %q: %w", code, models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (m *memCurrencyStore) List(ctx context.Context) ([]*models.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Currency, 0, len(m.currencies))
	for _, c := range m.currencies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memCurrencyStore) SetBase(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.currencies[code]
	if !ok {
		return fmt.Errorf("currency %q: %w", code, models.ErrNotFound)
	}
	for _, cur := range m.currencies {
		cur.IsBase = false
	}
	c.IsBase = true
	return nil
}

func (m *memCurrencyStore) GetBase(ctx context.Context) (*models.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.currencies {
		if c.IsBase {
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("base currency: %w", models.ErrNotFound)
}

type memRateStore memStorage

func (m *memRateStore) Append(ctx context.Context, quote *models.RateQuote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *quote
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.quotes = append(m.quotes, &cp)
	return nil
}

func (m *memRateStore) Latest(ctx context.Context, from, to string) (*models.RateQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.RateQuote
	for _, q := range m.quotes {
		if q.FromCode != from || q.ToCode != to {
			continue
		}
		if latest == nil || q.FetchedAt.After(latest.FetchedAt) {
			latest = q
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *memRateStore) History(ctx context.Context, from, to string, limit int) ([]*models.RateQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RateQuote
	for _, q := range m.quotes {
		if q.FromCode == from && q.ToCode == to {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.After(out[j].FetchedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memAccountStore memStorage

func (m *memAccountStore) Save(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memAccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", id, models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountStore) List(ctx context.Context) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memBudgetStore memStorage

func (m *memBudgetStore) Save(ctx context.Context, b *models.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.budgets[b.ID] = &cp
	return nil
}

func (m *memBudgetStore) Get(ctx context.Context, id string) (*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return nil, fmt.Errorf("budget %q: %w", id, models.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (m *memBudgetStore) ListByAccount(ctx context.Context, accountID string) ([]*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Budget
	for _, b := range m.budgets {
		if b.AccountID == accountID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBudgetStore) List(ctx context.Context) ([]*models.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Budget, 0, len(m.budgets))
	for _, b := range m.budgets {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memBudgetStore) Contributions(ctx context.Context, budgetID string) ([]*models.BudgetContribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contribs[budgetID], nil
}

func (m *memBudgetStore) ApplyContribution(ctx context.Context, budget *models.Budget, account *models.Account, contrib *models.BudgetContribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bcp := *budget
	m.budgets[budget.ID] = &bcp
	if account != nil {
		acp := *account
		m.accounts[account.ID] = &acp
	}
	if contrib != nil {
		ccp := *contrib
		m.contribs[contrib.BudgetID] = append(m.contribs[contrib.BudgetID], &ccp)
	}
	return nil
}

package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func target(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBudgetStateGates(t *testing.T) {
	cases := []struct {
		status        BudgetStatus
		canContribute bool
		canWithdraw   bool
		countsBlocked bool
	}{
		{BudgetStatusActive, true, true, true},
		{BudgetStatusCompleted, false, true, true},
		{BudgetStatusCancelled, false, false, false},
	}

	for _, tc := range cases {
		b := &Budget{Status: tc.status}
		if b.CanContribute() != tc.canContribute {
			t.Errorf("%s: CanContribute = %v, want %v", tc.status, b.CanContribute(), tc.canContribute)
		}
		if b.CanWithdraw() != tc.canWithdraw {
			t.Errorf("%s: CanWithdraw = %v, want %v", tc.status, b.CanWithdraw(), tc.canWithdraw)
		}
		if b.CountsAsBlocked() != tc.countsBlocked {
			t.Errorf("%s: CountsAsBlocked = %v, want %v", tc.status, b.CountsAsBlocked(), tc.countsBlocked)
		}
	}
}

func TestNextStatusAfterContribution_GoalCompletesAtTarget(t *testing.T) {
	b := &Budget{
		Type:          BudgetTypeGoal,
		Status:        BudgetStatusActive,
		TargetAmount:  target("500"),
		CurrentAmount: decimal.RequireFromString("500"),
	}
	if got := NextStatusAfterContribution(b); got != BudgetStatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}

	b.CurrentAmount = decimal.RequireFromString("600")
	if got := NextStatusAfterContribution(b); got != BudgetStatusCompleted {
		t.Errorf("overshoot: status = %s, want completed", got)
	}

	b.CurrentAmount = decimal.RequireFromString("499.99")
	if got := NextStatusAfterContribution(b); got != BudgetStatusActive {
		t.Errorf("below target: status = %s, want active", got)
	}
}

func TestNextStatusAfterContribution_EnvelopeNeverCompletes(t *testing.T) {
	b := &Budget{
		Type:          BudgetTypeEnvelope,
		Status:        BudgetStatusActive,
		CurrentAmount: decimal.RequireFromString("100000"),
	}
	if got := NextStatusAfterContribution(b); got != BudgetStatusActive {
		t.Errorf("status = %s, want active", got)
	}
}

func TestNextStatusAfterContribution_GoalWithoutTargetStaysActive(t *testing.T) {
	b := &Budget{
		Type:          BudgetTypeGoal,
		Status:        BudgetStatusActive,
		CurrentAmount: decimal.RequireFromString("100"),
	}
	if got := NextStatusAfterContribution(b); got != BudgetStatusActive {
		t.Errorf("status = %s, want active", got)
	}
}

// Completion latches: a withdrawal that drops the blocked balance back below
// target must not revert the budget to active.
func TestNextStatusAfterWithdrawal_CompletionLatches(t *testing.T) {
	b := &Budget{
		Type:          BudgetTypeGoal,
		Status:        BudgetStatusCompleted,
		TargetAmount:  target("500"),
		CurrentAmount: decimal.RequireFromString("300"),
	}
	if got := NextStatusAfterWithdrawal(b); got != BudgetStatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
}

func TestSumContributions(t *testing.T) {
	contribs := []*BudgetContribution{
		{Amount: decimal.RequireFromString("500")},
		{Amount: decimal.RequireFromString("-200")},
		{Amount: decimal.RequireFromString("50.25")},
	}
	if got := SumContributions(contribs); !got.Equal(decimal.RequireFromString("350.25")) {
		t.Errorf("sum = %s, want 350.25", got)
	}

	if got := SumContributions(nil); !got.IsZero() {
		t.Errorf("empty sum = %s, want 0", got)
	}
}

func TestValidCurrencyCode(t *testing.T) {
	valid := []string{"USD", "VES", "ARS", "USDT"}
	for _, c := range valid {
		if !ValidCurrencyCode(c) {
			t.Errorf("%q should be valid", c)
		}
	}

	invalid := []string{"", "US", "usd", "DOLLARS", "U1D", " USD"}
	for _, c := range invalid {
		if ValidCurrencyCode(c) {
			t.Errorf("%q should be invalid", c)
		}
	}
}

func TestRateQuoteValidate(t *testing.T) {
	base := func() *RateQuote {
		return &RateQuote{
			FromCode:  "USD",
			ToCode:    "VES",
			Rate:      decimal.RequireFromString("36.5"),
			Source:    RateSourceOfficial,
			FetchedAt: time.Now(),
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid quote rejected: %v", err)
	}

	q := base()
	q.ToCode = "USD"
	if err := q.Validate(); err == nil {
		t.Error("same from/to should be rejected")
	}

	q = base()
	q.Rate = decimal.Zero
	if err := q.Validate(); err == nil {
		t.Error("zero rate should be rejected")
	}

	q = base()
	q.Rate = decimal.RequireFromString("-1")
	if err := q.Validate(); err == nil {
		t.Error("negative rate should be rejected")
	}

	q = base()
	q.Source = "street"
	if err := q.Validate(); err == nil {
		t.Error("unknown source should be rejected")
	}
}

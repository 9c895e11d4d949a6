package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType distinguishes goal budgets (with a target, completing when
// reached) from envelope budgets (a running blocked total, no target needed).
type BudgetType string

const (
	BudgetTypeGoal     BudgetType = "goal"
	BudgetTypeEnvelope BudgetType = "envelope"
)

// ValidBudgetType returns true if t is a known budget type.
func ValidBudgetType(t BudgetType) bool {
	return t == BudgetTypeGoal || t == BudgetTypeEnvelope
}

// BudgetStatus is the budget lifecycle state. Cancelled is terminal.
type BudgetStatus string

const (
	BudgetStatusActive    BudgetStatus = "active"
	BudgetStatusCompleted BudgetStatus = "completed"
	BudgetStatusCancelled BudgetStatus = "cancelled"
)

// Budget blocks a portion of its account's balance against a savings goal.
// CurrentAmount is the running sum of its contribution records and must
// always reconcile against them.
type Budget struct {
	ID            string           `json:"id"`
	AccountID     string           `json:"account_id"`
	CurrencyCode  string           `json:"currency_code"`
	Name          string           `json:"name"`
	Type          BudgetType       `json:"type"`
	TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	Status        BudgetStatus     `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CanContribute reports whether the budget accepts contributions.
func (b *Budget) CanContribute() bool {
	return b.Status == BudgetStatusActive
}

// CanWithdraw reports whether the budget accepts withdrawals. Completed
// budgets still allow withdrawals; cancelled ones do not.
func (b *Budget) CanWithdraw() bool {
	return b.Status == BudgetStatusActive || b.Status == BudgetStatusCompleted
}

// CountsAsBlocked reports whether the budget's CurrentAmount is held against
// its account's balance. Cancelled budgets contribute nothing.
func (b *Budget) CountsAsBlocked() bool {
	return b.Status == BudgetStatusActive || b.Status == BudgetStatusCompleted
}

// NextStatusAfterContribution returns the status the budget should hold after
// a contribution has been applied. A goal budget completes once its current
// amount reaches the target. Kept separate from the mutation so the state
// machine is testable without persistence.
func NextStatusAfterContribution(b *Budget) BudgetStatus {
	if b.Status != BudgetStatusActive {
		return b.Status
	}
	if b.Type == BudgetTypeGoal && b.TargetAmount != nil && b.CurrentAmount.GreaterThanOrEqual(*b.TargetAmount) {
		return BudgetStatusCompleted
	}
	return BudgetStatusActive
}

// NextStatusAfterWithdrawal returns the status after a withdrawal. Completion
// is a one-way latch: dropping back below target does not revert to active.
func NextStatusAfterWithdrawal(b *Budget) BudgetStatus {
	return b.Status
}

// BudgetContribution is one append-only ledger entry against a budget.
// Positive amounts block funds (contribution), negative amounts release them
// (withdrawal).
type BudgetContribution struct {
	ID          string          `json:"id"`
	BudgetID    string          `json:"budget_id"`
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SumContributions returns the signed sum of contribution amounts. A budget's
// CurrentAmount must equal this at all times.
func SumContributions(contribs []*BudgetContribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contribs {
		total = total.Add(c.Amount)
	}
	return total
}

package server

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

// handleBudgets serves GET (list, optionally ?account_id=) and POST (create)
// on /api/budgets.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accountID := r.URL.Query().Get("account_id")
		budgets, err := s.app.BudgetService.ListBudgets(r.Context(), accountID)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, budgets)

	case http.MethodPost:
		var input interfaces.CreateBudgetInput
		if !DecodeJSON(w, r, &input) {
			return
		}

		budget, err := s.app.BudgetService.CreateBudget(r.Context(), input)
		if err != nil {
			s.logger.Error().Err(err).Str("account", input.AccountID).Msg("Failed to create budget")
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, budget)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

type budgetDetailResponse struct {
	*models.Budget
	Contributions []*models.BudgetContribution `json:"contributions"`
}

// handleBudgetGet serves GET /api/budgets/{id} with the contribution history
// embedded.
func (s *Server) handleBudgetGet(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	budget, err := s.app.BudgetService.GetBudget(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	contributions, err := s.app.BudgetService.Contributions(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, budgetDetailResponse{Budget: budget, Contributions: contributions})
}

type ledgerMoveRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// handleBudgetContributions serves GET (audit trail) and POST (contribute) on
// /api/budgets/{id}/contributions.
func (s *Server) handleBudgetContributions(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		contributions, err := s.app.BudgetService.Contributions(r.Context(), id)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, contributions)

	case http.MethodPost:
		var req ledgerMoveRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		budget, err := s.app.BudgetService.Contribute(r.Context(), id, req.AccountID, req.Amount, req.Description)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, budget)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleBudgetWithdraw serves POST /api/budgets/{id}/withdrawals.
func (s *Server) handleBudgetWithdraw(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ledgerMoveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	budget, err := s.app.BudgetService.Withdraw(r.Context(), id, req.AccountID, req.Amount, req.Description)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, budget)
}

// handleBudgetCancel serves POST /api/budgets/{id}/cancel.
func (s *Server) handleBudgetCancel(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	budget, err := s.app.BudgetService.Cancel(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, budget)
}

package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/models"
)

type createAccountRequest struct {
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currency_code"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type accountResponse struct {
	*models.Account
	Balance *models.AccountBalance `json:"balance,omitempty"`
}

// newAccountID returns a unique account ID.
func newAccountID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "acc_00000000"
	}
	return "acc_" + hex.EncodeToString(b)
}

// handleAccounts serves GET (list with projected balances) and POST (create)
// on /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := s.app.Storage.Accounts().List(r.Context())
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		balances, err := s.app.BalanceService.ProjectAccounts(r.Context())
		if err != nil {
			WriteDomainError(w, err)
			return
		}

		byID := make(map[string]*models.AccountBalance, len(balances))
		for _, b := range balances {
			byID[b.AccountID] = b
		}

		out := make([]accountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, accountResponse{Account: a, Balance: byID[a.ID]})
		}
		WriteJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req createAccountRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Account name is required")
			return
		}
		code := models.NormalizeCode(req.CurrencyCode)
		if !models.ValidCurrencyCode(code) {
			WriteError(w, http.StatusBadRequest, "Currency code must be 3-4 uppercase letters")
			return
		}
		if req.InitialBalance.IsNegative() {
			WriteError(w, http.StatusBadRequest, "Initial balance must not be negative")
			return
		}

		now := time.Now()
		account := &models.Account{
			ID:           newAccountID(),
			Name:         name,
			CurrencyCode: code,
			TotalBalance: req.InitialBalance,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := s.app.Storage.Accounts().Save(r.Context(), account); err != nil {
			s.logger.Error().Err(err).Str("name", name).Msg("Failed to save account")
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, account)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAccountGet serves GET /api/accounts/{id} with the projected balance
// embedded.
func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	account, err := s.app.Storage.Accounts().Get(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	balance, err := s.app.BalanceService.ProjectAccount(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, accountResponse{Account: account, Balance: balance})
}

// handleAccountBalance serves GET /api/accounts/{id}/balance.
func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	balance, err := s.app.BalanceService.ProjectAccount(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balance)
}

// handleAccountBalances serves GET /api/accounts/balances, projecting every
// account in one pass.
func (s *Server) handleAccountBalances(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	balances, err := s.app.BalanceService.ProjectAccounts(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balances)
}

package server

import (
	"net/http"
	"strings"

	"github.com/cambiolabs/cambio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Currencies
	mux.HandleFunc("/api/currencies/base", s.handleCurrencyBase)
	mux.HandleFunc("/api/currencies", s.handleCurrencies)

	// Rates
	mux.HandleFunc("/api/rates/quotes", s.handleRateQuotes)
	mux.HandleFunc("/api/rates/resolve", s.handleRateResolve)
	mux.HandleFunc("/api/rates/convert", s.handleRateConvert)
	mux.HandleFunc("/api/rates/compare", s.handleRateCompare)
	mux.HandleFunc("/api/rates/convert-to-base", s.handleConvertToBase)

	// Accounts
	mux.HandleFunc("/api/accounts/balances", s.handleAccountBalances)
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)

	// Budgets
	mux.HandleFunc("/api/budgets/", s.routeBudgets)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// routeAccounts dispatches /api/accounts/{id} and /api/accounts/{id}/balance.
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/")

	switch {
	case strings.HasSuffix(rest, "/balance"):
		id := strings.TrimSuffix(rest, "/balance")
		s.handleAccountBalance(w, r, id)
	case rest != "" && !strings.Contains(rest, "/"):
		s.handleAccountGet(w, r, rest)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// routeBudgets dispatches /api/budgets/{id} and its sub-resources.
func (s *Server) routeBudgets(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/budgets/")

	switch {
	case strings.HasSuffix(rest, "/contributions"):
		id := strings.TrimSuffix(rest, "/contributions")
		s.handleBudgetContributions(w, r, id)
	case strings.HasSuffix(rest, "/withdrawals"):
		id := strings.TrimSuffix(rest, "/withdrawals")
		s.handleBudgetWithdraw(w, r, id)
	case strings.HasSuffix(rest, "/cancel"):
		id := strings.TrimSuffix(rest, "/cancel")
		s.handleBudgetCancel(w, r, id)
	case rest != "" && !strings.Contains(rest, "/"):
		s.handleBudgetGet(w, r, rest)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

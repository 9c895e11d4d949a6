package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/cambiolabs/cambio/internal/models"
)

type createCurrencyRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// handleCurrencies serves GET (list) and POST (create) on /api/currencies.
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		currencies, err := s.app.Storage.Currencies().List(r.Context())
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list currencies")
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, currencies)

	case http.MethodPost:
		var req createCurrencyRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		code := models.NormalizeCode(req.Code)
		if !models.ValidCurrencyCode(code) {
			WriteError(w, http.StatusBadRequest, "Currency code must be 3-4 uppercase letters")
			return
		}

		now := time.Now()
		currency := &models.Currency{
			ID:        strings.ToLower(code),
			Code:      code,
			Name:      strings.TrimSpace(req.Name),
			Symbol:    strings.TrimSpace(req.Symbol),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.app.Storage.Currencies().Save(r.Context(), currency); err != nil {
			s.logger.Error().Err(err).Str("code", code).Msg("Failed to save currency")
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, currency)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

type setBaseRequest struct {
	Code string `json:"code"`
}

// handleCurrencyBase serves GET (current base) and PUT (atomic swap) on
// /api/currencies/base.
func (s *Server) handleCurrencyBase(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		base, err := s.app.Storage.Currencies().GetBase(r.Context())
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, base)

	case http.MethodPut:
		var req setBaseRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		code := models.NormalizeCode(req.Code)
		if !models.ValidCurrencyCode(code) {
			WriteError(w, http.StatusBadRequest, "Currency code must be 3-4 uppercase letters")
			return
		}

		if err := s.app.Storage.Currencies().SetBase(r.Context(), code); err != nil {
			s.logger.Error().Err(err).Str("code", code).Msg("Failed to set base currency")
			WriteDomainError(w, err)
			return
		}

		base, err := s.app.Storage.Currencies().GetBase(r.Context())
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, base)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/models"
)

type ingestQuoteRequest struct {
	FromCode  string            `json:"from_code"`
	ToCode    string            `json:"to_code"`
	Rate      decimal.Decimal   `json:"rate"`
	Source    models.RateSource `json:"source"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// handleRateQuotes serves POST (ingest) and GET (history) on /api/rates/quotes.
// Ingest is the boundary where external sync jobs deliver quotes; it is
// throttled by the ingest middleware.
func (s *Server) handleRateQuotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req ingestQuoteRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		fetchedAt := req.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now()
		}

		quote := &models.RateQuote{
			FromCode:  models.NormalizeCode(req.FromCode),
			ToCode:    models.NormalizeCode(req.ToCode),
			Rate:      req.Rate,
			Source:    req.Source,
			FetchedAt: fetchedAt,
		}
		if err := quote.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.app.Storage.Rates().Append(r.Context(), quote); err != nil {
			s.logger.Error().Err(err).
				Str("from", quote.FromCode).Str("to", quote.ToCode).
				Msg("Failed to append rate quote")
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, quote)

	case http.MethodGet:
		from := models.NormalizeCode(r.URL.Query().Get("from"))
		to := models.NormalizeCode(r.URL.Query().Get("to"))
		if !models.ValidCurrencyCode(from) || !models.ValidCurrencyCode(to) {
			WriteError(w, http.StatusBadRequest, "Query params 'from' and 'to' must be valid currency codes")
			return
		}

		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				WriteError(w, http.StatusBadRequest, "Query param 'limit' must be a positive integer")
				return
			}
			limit = n
		}

		quotes, err := s.app.Storage.Rates().History(r.Context(), from, to, limit)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, quotes)

	default:
		RequireMethod(w, r, http.MethodPost, http.MethodGet)
	}
}

// handleRateResolve serves GET /api/rates/resolve?from=&to=.
func (s *Server) handleRateResolve(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	resolution, err := s.app.RateService.Resolve(r.Context(), from, to)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if resolution == nil {
		WriteError(w, http.StatusNotFound, "No rate path between "+models.NormalizeCode(from)+" and "+models.NormalizeCode(to))
		return
	}
	WriteJSON(w, http.StatusOK, resolution)
}

type convertRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	FromCode string          `json:"from_code"`
	ToCode   string          `json:"to_code"`
}

type convertResponse struct {
	Amount          decimal.Decimal        `json:"amount"`
	ConvertedAmount decimal.Decimal        `json:"converted_amount"`
	Resolution      *models.RateResolution `json:"resolution"`
}

// handleRateConvert serves POST /api/rates/convert.
func (s *Server) handleRateConvert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req convertRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resolution, err := s.app.RateService.Resolve(r.Context(), req.FromCode, req.ToCode)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if resolution == nil {
		WriteError(w, http.StatusNotFound, "No rate path between "+models.NormalizeCode(req.FromCode)+" and "+models.NormalizeCode(req.ToCode))
		return
	}

	WriteJSON(w, http.StatusOK, convertResponse{
		Amount:          req.Amount,
		ConvertedAmount: s.app.RateService.Convert(req.Amount, resolution.Rate),
		Resolution:      resolution,
	})
}

type compareRequest struct {
	Amount       decimal.Decimal  `json:"amount"`
	FromCode     string           `json:"from_code"`
	ToCode       string           `json:"to_code"`
	CustomRate   decimal.Decimal  `json:"custom_rate"`
	OfficialRate *decimal.Decimal `json:"official_rate,omitempty"`
}

type compareResponse struct {
	models.RateComparison
	Savings    decimal.Decimal        `json:"savings"`
	Resolution *models.RateResolution `json:"resolution,omitempty"`
}

// handleRateCompare serves POST /api/rates/compare. When no official rate is
// supplied it is resolved from stored quotes; the trade direction is derived
// from the base currency so "is_saving" reads correctly on both sides.
func (s *Server) handleRateCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req compareRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.CustomRate.IsPositive() {
		WriteError(w, http.StatusBadRequest, "custom_rate must be positive")
		return
	}

	var resolution *models.RateResolution
	official := decimal.Zero
	if req.OfficialRate != nil {
		official = *req.OfficialRate
	} else {
		var err error
		resolution, err = s.app.RateService.Resolve(r.Context(), req.FromCode, req.ToCode)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		if resolution == nil {
			WriteError(w, http.StatusNotFound, "No official rate between "+models.NormalizeCode(req.FromCode)+" and "+models.NormalizeCode(req.ToCode))
			return
		}
		official = resolution.Rate
	}

	isSellingBase := models.NormalizeCode(req.FromCode) == s.baseCode(r)

	comparison := s.app.RateService.CompareRates(official, req.CustomRate, req.Amount, isSellingBase)
	savings := s.app.RateService.CalculateSavings(req.Amount, official, req.CustomRate)

	WriteJSON(w, http.StatusOK, compareResponse{
		RateComparison: comparison,
		Savings:        savings,
		Resolution:     resolution,
	})
}

type convertToBaseRequest struct {
	Items []interfaces.ConversionItem `json:"items"`
}

type convertToBaseResponse struct {
	BaseCode string                     `json:"base_code"`
	Items    []interfaces.ConvertedItem `json:"items"`
}

// handleConvertToBase serves POST /api/rates/convert-to-base.
func (s *Server) handleConvertToBase(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req convertToBaseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		WriteError(w, http.StatusBadRequest, "items is required and must not be empty")
		return
	}

	baseCode := s.baseCode(r)
	converted, err := s.app.RateService.ConvertManyToBase(r.Context(), req.Items, baseCode)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, convertToBaseResponse{BaseCode: baseCode, Items: converted})
}

// baseCode returns the configured base currency, preferring the stored base
// over the config default.
func (s *Server) baseCode(r *http.Request) string {
	base, err := s.app.Storage.Currencies().GetBase(r.Context())
	if err == nil && base != nil {
		return base.Code
	}
	return models.NormalizeCode(s.app.Config.Rates.DefaultBase)
}

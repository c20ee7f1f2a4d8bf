package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/datastore"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/feature"
	"github.com/nikolaos-mavromatis/house-price-quoting-app/internal/service"
)

// QuoteHandler serves house price quotes.
type QuoteHandler struct {
	svc    *service.Service
	quotes datastore.QuoteWriter
	logger *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(svc *service.Service, quotes datastore.QuoteWriter, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{svc: svc, quotes: quotes, logger: logger}
}

// RegisterRoutes registers the quote routes on the chi router.
func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quote", h.CreateQuote)
}

// quoteRequest is the request schema. YrSold is optional; the service
// defaults it when absent. Pointer fields distinguish missing from zero.
type quoteRequest struct {
	LotArea      *float64 `json:"LotArea"`
	YearBuilt    *int     `json:"YearBuilt"`
	YearRemodAdd *int     `json:"YearRemodAdd"`
	YrSold       *int     `json:"YrSold,omitempty"`
	OverallQual  *int     `json:"OverallQual"`
	OverallCond  *int     `json:"OverallCond"`
}

// validate performs the range checks the core deliberately does not: the
// pipeline only checks structural completeness, out-of-range rejection is
// this layer's job.
func (q *quoteRequest) validate() error {
	switch {
	case q.LotArea == nil || q.YearBuilt == nil || q.YearRemodAdd == nil ||
		q.OverallQual == nil || q.OverallCond == nil:
		return fmt.Errorf("LotArea, YearBuilt, YearRemodAdd, OverallQual and OverallCond are required")
	case *q.LotArea <= 0:
		return fmt.Errorf("LotArea must be positive")
	case *q.YearBuilt < 1800 || *q.YearBuilt > time.Now().Year():
		return fmt.Errorf("YearBuilt must be between 1800 and the current year")
	case *q.YearRemodAdd < *q.YearBuilt || *q.YearRemodAdd > time.Now().Year():
		return fmt.Errorf("YearRemodAdd must be between YearBuilt and the current year")
	case q.YrSold != nil && *q.YrSold < *q.YearRemodAdd:
		return fmt.Errorf("YrSold must not be before YearRemodAdd")
	case *q.OverallQual < 1 || *q.OverallQual > 10:
		return fmt.Errorf("OverallQual must be between 1 and 10")
	case *q.OverallCond < 1 || *q.OverallCond > 10:
		return fmt.Errorf("OverallCond must be between 1 and 10")
	}
	return nil
}

func (q *quoteRequest) house() feature.House {
	h := feature.House{
		LotArea:      *q.LotArea,
		YearBuilt:    *q.YearBuilt,
		YearRemodAdd: *q.YearRemodAdd,
		OverallQual:  *q.OverallQual,
		OverallCond:  *q.OverallCond,
	}
	if q.YrSold != nil {
		h.YrSold = *q.YrSold
	}
	return h
}

// quoteResponse is the response schema. The price is rounded to cents.
type quoteResponse struct {
	PredictedPrice decimal.Decimal `json:"predicted_price"`
	RequestID      string          `json:"request_id"`
}

// CreateQuote handles POST /quote.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	house := req.house()
	price, err := h.svc.PredictSingle(house)
	if err != nil {
		h.logger.Error("prediction failed", zap.Error(err))
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}

	requestID := uuid.New().String()
	h.quotes.SaveQuote(datastore.Quote{
		Time:           time.Now().UTC(),
		RequestID:      requestID,
		LotArea:        house.LotArea,
		YearBuilt:      house.YearBuilt,
		YearRemodAdd:   house.YearRemodAdd,
		YrSold:         house.YrSold,
		OverallQual:    house.OverallQual,
		OverallCond:    house.OverallCond,
		PredictedPrice: price,
	})

	resp := quoteResponse{
		PredictedPrice: decimal.NewFromFloat(price).Round(2),
		RequestID:      requestID,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

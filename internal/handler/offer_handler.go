package handler

import (
	"net/http"
	"time"

	"parrot-ordering/internal/model"
	"parrot-ordering/internal/service"

	"github.com/rs/zerolog"
)

// OfferHandler handles daily offer and cook HTTP requests.
type OfferHandler struct {
	ledger service.LedgerService
	orders service.OrderService
	clock  service.Clock
	logger zerolog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(ledger service.LedgerService, orders service.OrderService, clock service.Clock, logger zerolog.Logger) *OfferHandler {
	return &OfferHandler{
		ledger: ledger,
		orders: orders,
		clock:  clock,
		logger: logger.With().Str("handler", "offer").Logger(),
	}
}

// Today handles GET /api/offers/today requests.
func (h *OfferHandler) Today(w http.ResponseWriter, r *http.Request) {
	offers, err := h.ledger.ListTodayOffers(r.Context(), h.clock.Today())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// PublishMenu handles PUT /api/cook/menu requests.
func (h *OfferHandler) PublishMenu(w http.ResponseWriter, r *http.Request) {
	cookID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.PublishMenuRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	offers, err := h.ledger.Publish(r.Context(), cookID, h.clock.Today(), req.Items)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// CookMenu handles GET /api/cook/menu requests.
func (h *OfferHandler) CookMenu(w http.ResponseWriter, r *http.Request) {
	cookID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	offers, err := h.ledger.ListCookOffers(r.Context(), cookID, h.clock.Today())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, offers)
}

// CookOrderItems handles GET /api/cook/order-items requests. The date
// query parameter defaults to today.
func (h *OfferHandler) CookOrderItems(w http.ResponseWriter, r *http.Request) {
	cookID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	var date time.Time
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := service.ParseDate(d)
		if err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		date = parsed
	} else {
		date = h.clock.Today()
	}

	items, err := h.orders.ListCookItems(r.Context(), cookID, date)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Withdraw handles DELETE /api/offers/{offerID} requests.
func (h *OfferHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	offerID, ok := uuidParam(w, r, "offerID", h.logger)
	if !ok {
		return
	}

	if err := h.ledger.Withdraw(r.Context(), offerID); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

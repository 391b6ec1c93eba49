package handler

import (
	"net/http"

	"parrot-ordering/internal/model"
	"parrot-ordering/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles shopping cart HTTP requests.
type CartHandler struct {
	service service.CartService
	clock   service.Clock
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, clock service.Clock, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		clock:   clock,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// View handles GET /api/cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.ViewCart(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	line, err := h.service.AddItem(r.Context(), customerID, h.clock.Today(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, line)
}

// UpdateItem handles PATCH /api/cart/items/{lineID} requests. A quantity of
// zero or less removes the line and answers 204.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	lineID, ok := uuidParam(w, r, "lineID", h.logger)
	if !ok {
		return
	}

	var req model.UpdateCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	line, err := h.service.UpdateItem(r.Context(), customerID, h.clock.Today(), lineID, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	if line == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// RemoveItem handles DELETE /api/cart/items/{lineID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	lineID, ok := uuidParam(w, r, "lineID", h.logger)
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), customerID, lineID); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

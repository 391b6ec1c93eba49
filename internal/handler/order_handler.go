package handler

import (
	"net/http"

	"parrot-ordering/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	clock   service.Clock
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, clock service.Clock, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		clock:   clock,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Submit handles POST /api/orders requests. The customer's cart is
// committed against today's offers.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	receipt, err := h.service.Submit(r.Context(), customerID, h.clock.Today())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{orderID} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	customerID, ok := actorID(w, r, h.logger)
	if !ok {
		return
	}

	orderID, ok := uuidParam(w, r, "orderID", h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), customerID, orderID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

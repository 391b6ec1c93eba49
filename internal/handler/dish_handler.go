package handler

import (
	"net/http"
	"strconv"

	"parrot-ordering/internal/model"
	"parrot-ordering/internal/service"

	"github.com/rs/zerolog"
)

// DishHandler handles catalogue HTTP requests.
type DishHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewDishHandler creates a new dish handler.
func NewDishHandler(service service.CatalogService, logger zerolog.Logger) *DishHandler {
	return &DishHandler{
		service: service,
		logger:  logger.With().Str("handler", "dish").Logger(),
	}
}

// List handles GET /api/dishes requests.
func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters
	query := r.URL.Query()
	category := query.Get("category")

	limit := 10
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid limit", h.logger)
			return
		}
		limit = parsed
	}

	offset := 0
	if o := query.Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid offset", h.logger)
			return
		}
		offset = parsed
	}

	dishes, err := h.service.List(r.Context(), category, limit, offset)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dishes)
}

// GetByID handles GET /api/dishes/{dishID} requests.
func (h *DishHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "dishID", h.logger)
	if !ok {
		return
	}

	dish, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dish)
}

// Create handles POST /api/dishes requests.
func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDishRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	dish, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, dish)
}

// Update handles PUT /api/dishes/{dishID} requests.
func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "dishID", h.logger)
	if !ok {
		return
	}

	var req model.UpdateDishRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	dish, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dish)
}

// Delete handles DELETE /api/dishes/{dishID} requests.
func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "dishID", h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

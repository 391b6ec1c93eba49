package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"parrot-ordering/internal/middleware"
	"parrot-ordering/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: chimw.GetReqID(r.Context()),
	})
}

// writeDomainError maps err to a status code. Errors that are not a
// DomainError are logged and hidden behind a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:         model.ErrCodeInternalError,
			Message:       "internal server error",
			CorrelationID: chimw.GetReqID(r.Context()),
		})
		return
	}

	status := statusFor(domainErr.Code)
	logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg(domainErr.Message)
	writeJSON(w, status, model.ErrorResponse{
		Error:         domainErr.Code,
		Message:       domainErr.Message,
		DishID:        domainErr.DishID,
		Available:     domainErr.Available,
		CorrelationID: chimw.GetReqID(r.Context()),
	})
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeDishNotFound, model.ErrCodeOfferNotFound,
		model.ErrCodeCartLineNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeDishClaimed, model.ErrCodeDishInUse:
		return http.StatusConflict
	case model.ErrCodeInsufficientStock, model.ErrCodeExceedsAvailable,
		model.ErrCodeNotAvailable, model.ErrCodeEmptyCart:
		return http.StatusUnprocessableEntity
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// actorID returns the caller set by the identity middleware.
func actorID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authenticated", logger)
		return "", false
	}
	return actor.ID, true
}

func int64Param(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name, logger)
		return 0, false
	}
	return id, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid "+name, logger)
		return uuid.Nil, false
	}
	return id, true
}

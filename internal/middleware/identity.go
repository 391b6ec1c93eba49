package middleware

import (
	"context"
	"net/http"
	"strings"

	"parrot-ordering/internal/model"

	"github.com/rs/zerolog"
)

// Headers carrying the caller's identity. Accounts are managed elsewhere;
// the gateway in front of this service sets them.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

type contextKey string

const actorKey contextKey = "actor"

// Identity reads the actor headers into the request context and rejects
// requests without a valid actor.
func Identity(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderActorID))
			if id == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing actor ID")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: missing "+HeaderActorID)
				return
			}

			role, err := model.ParseRole(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole))))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid actor role")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unauthorised: invalid "+HeaderActorRole)
				return
			}

			ctx := WithActor(r.Context(), model.Actor{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole only lets actors with one of roles through.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authenticated")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, r, http.StatusForbidden, model.ErrCodeForbidden, "insufficient permissions")
		})
	}
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the actor stored by Identity.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}

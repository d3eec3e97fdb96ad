package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/transport"
	"github.com/frahmantamala/user-backoffice/pkg/logger"
)

type Middleware struct {
	*transport.BaseHandler
	Validator TokenValidator
	Actors    ActorRepository
}

func NewMiddleware(validator TokenValidator, actors ActorRepository) *Middleware {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Middleware{
		BaseHandler: transport.NewBaseHandler(lg),
		Validator:   validator,
		Actors:      actors,
	}
}

// WithActor attaches the authenticated actor to the request context when a
// valid bearer token is present. A missing or invalid token does not reject
// the request; it only leaves the actor unset, which gates audit logging
// downstream.
func (m *Middleware) WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Validator.ValidateToken(token)
		if err != nil {
			m.Logger.Warn("actor middleware: token validation failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		uid, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			m.Logger.Warn("actor middleware: unparseable user id in claims", "value", claims.UserID, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		actor, err := m.Actors.GetActorByID(uid)
		if err != nil {
			m.Logger.Warn("actor middleware: failed to load actor", "user_id", uid, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

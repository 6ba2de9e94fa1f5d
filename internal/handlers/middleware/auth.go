package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/handlers/render"
	"github.com/nkiryanov/favours/internal/handlers/userctx"
)

const (
	notLoggedInMessage = "Not Logged in."
	authFailedMessage  = "Authentication failed."
)

type authService interface {
	// Has to return apperrors.ErrNotLoggedIn if request has no token
	Auth(r *http.Request) (uuid.UUID, error)
}

type debugLogger interface {
	Debug(msg string, args ...any)
}

// AuthMiddleware lets request through only if it carries valid token.
// The reason of token rejection is logged but never sent to the client
func AuthMiddleware(as authService, l debugLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := as.Auth(r)

			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(userctx.New(r.Context(), userID)))
			case errors.Is(err, apperrors.ErrNotLoggedIn):
				render.ServiceError(w, notLoggedInMessage, http.StatusUnauthorized)
			default:
				l.Debug("token rejected", "uri", r.RequestURI, "error", err)
				render.ServiceError(w, authFailedMessage, http.StatusUnauthorized)
			}
		})
	}
}

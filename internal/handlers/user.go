package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/handlers/render"
	"github.com/nkiryanov/favours/internal/handlers/userctx"
	"github.com/nkiryanov/favours/internal/logger"
)

func handleUserMe(userService userService, l logger.Logger) http.Handler {
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
			return
		}

		user, err := userService.GetUserByID(r.Context(), userID)

		switch {
		case err == nil:
			render.JSON(w, response{ID: user.ID, Username: user.Username})
		case errors.Is(err, apperrors.ErrUserNotFound):
			// Token may outlive its user
			l.Debug("User from token not found", "user_id", userID)
			render.ServiceError(w, "Authentication failed.", http.StatusUnauthorized)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
		}
	})
}

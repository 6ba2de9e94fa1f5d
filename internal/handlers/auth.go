package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/handlers/render"
	"github.com/nkiryanov/favours/internal/logger"
	"github.com/nkiryanov/favours/internal/service/validate"
)

const (
	registeredMessage         = "User has been created!"
	loggedInMessage           = "Login Successful!"
	loggedOutMessage          = "Logout Successful!"
	userExistsMessage         = "Username is already taken!"
	invalidCredentialMessage  = "Either the username or the password are incorrect!"
	registrationFailedMessage = "There was an issue with the registration."
	internalErrorMessage      = "Server ran into unexpected errors."
)

// Credentials are validated by auth service, so no struct tags here
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[credentialsRequest](w, r)
		if err != nil {
			return
		}

		_, err = authService.Register(r.Context(), data.Username, data.Password)

		var vErr *validate.Error
		switch {
		case err == nil:
			render.JSONWithStatus(w, messageResponse{Message: registeredMessage}, http.StatusCreated)
		case errors.As(err, &vErr):
			render.ValidationError(w, vErr.Field, vErr.Message)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, userExistsMessage, http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrPasswordHash):
			l.Error("Failed to hash password", "error", err)
			render.ServiceError(w, registrationFailedMessage, http.StatusBadRequest)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[credentialsRequest](w, r)
		if err != nil {
			return
		}

		token, err := authService.Login(r.Context(), data.Username, data.Password)

		var vErr *validate.Error
		switch {
		case err == nil:
			authService.SetToken(w, token)
			render.JSON(w, messageResponse{Message: loggedInMessage})
		case errors.As(err, &vErr):
			render.ValidationError(w, vErr.Field, vErr.Message)
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, invalidCredentialMessage, http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, internalErrorMessage, http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authService.ClearToken(w)
		render.JSON(w, messageResponse{Message: loggedOutMessage})
	})
}

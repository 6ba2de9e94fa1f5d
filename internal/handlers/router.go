package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkiryanov/favours/internal/handlers/middleware"
	"github.com/nkiryanov/favours/internal/logger"
	"github.com/nkiryanov/favours/internal/models"
	"github.com/nkiryanov/favours/internal/service/favour"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	favourService favourService,
	logger logger.Logger,
	registry *prometheus.Registry,
) http.Handler {
	metrics := middleware.NewMetrics(registry)
	withAuth := middleware.AuthMiddleware(authService, logger)

	auth := http.NewServeMux()
	auth.Handle("POST /register", handleRegister(authService, logger))
	auth.Handle("POST /login", handleLogin(authService, logger))
	auth.Handle("POST /logout", handleLogout(authService))
	auth.Handle("GET /me", withAuth(handleUserMe(userService, logger)))

	root := http.NewServeMux()
	root.Handle("/auth/", http.StripPrefix("/auth", auth))
	root.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	listFavours := withAuth(handleListFavours(favourService, logger))
	deleteFavour := withAuth(handleDeleteFavour(favourService, logger))
	root.Handle("GET /favours", listFavours)
	root.Handle("GET /favours/{$}", listFavours)
	root.Handle("POST /favours/add-favour", withAuth(handleCreateFavour(favourService, logger)))
	root.Handle("GET /favours/{id}", withAuth(handleGetFavour(favourService, logger)))
	root.Handle("POST /favours/{id}/update-favour", withAuth(handleUpdateFavour(favourService, logger)))
	root.Handle("GET /favours/{id}/remove-favour", deleteFavour)
	root.Handle("DELETE /favours/{id}", deleteFavour)

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		metrics.Middleware,
	)

	return handler
}

type authService interface {
	// Register user with username and password
	// Has to return *validate.Error if credentials malformed
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, password string) (models.User, error)

	// Login user with username and password
	// Has to return apperrors.ErrInvalidCredentials if user not found or password is wrong
	Login(ctx context.Context, username string, password string) (models.IssuedToken, error)

	// Set or expire access token cookie
	SetToken(w http.ResponseWriter, token models.IssuedToken)
	ClearToken(w http.ResponseWriter)

	// Get user id from request access token
	Auth(r *http.Request) (uuid.UUID, error)
}

type userService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type favourService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Favour, error)
	Get(ctx context.Context, favourID uuid.UUID, userID uuid.UUID) (models.Favour, error)
	Create(ctx context.Context, creatorID uuid.UUID, p favour.CreateParams) (models.Favour, error)
	Update(ctx context.Context, favourID uuid.UUID, userID uuid.UUID, p favour.UpdateParams) (models.Favour, error)
	Delete(ctx context.Context, favourID uuid.UUID, userID uuid.UUID) error
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/models"
	"github.com/nkiryanov/favours/internal/service/validate"
)

const (
	defaultCookieName   = "token"
	defaultCookieMaxAge = 600 * time.Second
)

type TokenManager interface {
	// Issue signed access token for user
	Issue(userID uuid.UUID) (models.IssuedToken, error)

	// Verify token and return user id from it
	// Has to return apperrors.ErrAuthFailed on any failure
	Verify(token string) (uuid.UUID, error)
}

type UserService interface {
	// Has to return apperrors.ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, username string, password string) (models.User, error)

	// Has to return apperrors.ErrInvalidCredentials if user not found or password mismatch
	Login(ctx context.Context, username string, password string) (models.User, error)
}

type Config struct {
	// Name of the cookie with access token
	// If not set than default is used
	CookieName string

	// Lifetime of the cookie in browser
	// If not set than default is used
	CookieMaxAge time.Duration

	// Send cookie over https only. Has to be true in production
	SecureCookie bool
}

// Auth service
type AuthService struct {
	cookieName   string
	cookieMaxAge time.Duration
	secureCookie bool

	tokenManager TokenManager
	userService  UserService
}

func NewService(cfg Config, tokenManager TokenManager, userService UserService) (*AuthService, error) {
	if tokenManager == nil || userService == nil {
		return nil, errors.New("token manager and user service must not be nil")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookieMaxAge == 0 {
		cfg.CookieMaxAge = defaultCookieMaxAge
	}

	return &AuthService{
		cookieName:   cfg.CookieName,
		cookieMaxAge: cfg.CookieMaxAge,
		secureCookie: cfg.SecureCookie,
		tokenManager: tokenManager,
		userService:  userService,
	}, nil
}

// Register validates credentials and creates user.
// Credentials errors are *validate.Error, duplicate username is apperrors.ErrUserAlreadyExists
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.User, error) {
	if err := validate.Credentials(username, password); err != nil {
		return models.User{}, err
	}

	return s.userService.CreateUser(ctx, username, password)
}

// Login checks credentials and issues access token.
// Unknown user and wrong password are both apperrors.ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.IssuedToken, error) {
	// Presence only: a malformed password must get the same 401 as a wrong one
	if err := validate.Present(username, password); err != nil {
		return models.IssuedToken{}, err
	}

	user, err := s.userService.Login(ctx, username, password)
	if err != nil {
		return models.IssuedToken{}, err
	}

	token, err := s.tokenManager.Issue(user.ID)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return token, nil
}

// Set access token cookie to response
func (s *AuthService) SetToken(w http.ResponseWriter, token models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// Expire access token cookie in browser
func (s *AuthService) ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

// Auth reads access token from cookie and returns user id from it.
// Returns apperrors.ErrNotLoggedIn if cookie is absent and apperrors.ErrAuthFailed if token is not valid
func (s *AuthService) Auth(r *http.Request) (uuid.UUID, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, apperrors.ErrNotLoggedIn
	}

	return s.tokenManager.Verify(cookie.Value)
}

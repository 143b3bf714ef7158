package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"dawah-crm/internal/application"
	"dawah-crm/internal/domain"

	"github.com/rs/zerolog"
)

// AuthHandlers serves registration, login and the current-user endpoint.
type AuthHandlers struct {
	auth   *application.AuthService
	logger zerolog.Logger
}

// NewAuthHandlers creates the auth handler set.
func NewAuthHandlers(auth *application.AuthService, logger zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, application.ErrEmailInUse) {
			respondError(w, http.StatusConflict, "email already in use")
			return
		}
		h.logger.Error().Err(err).Msg("Registration failed")
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	respond(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("Login failed")
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respond(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respond(w, http.StatusOK, user)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
	"github.com/SydAsim/Visaguardai-Upwork/internal/auth"
	"github.com/SydAsim/Visaguardai-Upwork/internal/models"
	"github.com/SydAsim/Visaguardai-Upwork/internal/services"
)

// AccountHandler handles HTTP requests for registration, sessions and
// profile management.
type AccountHandler struct {
	service  services.AccountServiceProvider
	events   services.EventServiceProvider
	tokens   *auth.TokenManager
	validate *validator.Validate
	isProd   bool
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service services.AccountServiceProvider, events services.EventServiceProvider, tokens *auth.TokenManager, isProd bool) *AccountHandler {
	return &AccountHandler{
		service:  service,
		events:   events,
		tokens:   tokens,
		validate: validator.New(),
		isProd:   isProd,
	}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ConnectPayload carries the handle used when connecting a platform.
type ConnectPayload struct {
	Username string `json:"username"`
}

func (h *AccountHandler) decode(r *http.Request, payload interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return apperrors.New(apperrors.CodeValidation, "invalid request body")
	}
	if err := h.validate.Struct(payload); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid request payload")
	}
	return nil
}

// Register handles new user registration. It does not start a session.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := h.decode(r, &payload); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Register(payload.Email, payload.Password, payload.ConfirmPassword)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	if err := h.events.Record("auth.register", "info", "Account created", user.Email); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to record register event")
	}

	respondJSON(w, http.StatusCreated, user.Sanitized())
}

// Login handles user authentication and JWT generation.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := h.decode(r, &payload); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Login(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.Email)
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to generate JWT")
		respondError(w, apperrors.Wrap(apperrors.CodeInternal, err, "failed to generate token"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	if err := h.events.Record("auth.login", "info", "Signed in", user.Email); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to record login event")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Sanitized(),
	})
}

// Logout clears the session; it succeeds regardless of prior state.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// GetMe returns the record of the active session.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := resolveSessionUser(h.service, r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user.Sanitized())
}

// UpdateMe applies a partial update to the active session's record. Supplied
// top-level fields replace the stored ones in full.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveSessionUser(h.service, r); err != nil {
		respondError(w, err)
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}

	user, err := h.service.UpdateCurrentUser(update)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update user")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user.Sanitized())
}

// ConnectAccount marks a social platform as connected for the current user.
func (h *AccountHandler) ConnectAccount(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveSessionUser(h.service, r); err != nil {
		respondError(w, err)
		return
	}

	platform := chi.URLParam(r, "platform")

	// The username is optional; older clients connect with just a flag.
	var payload ConnectPayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
			return
		}
	}

	user, err := h.service.ConnectAccount(platform, payload.Username)
	if err != nil {
		log.Warn().Err(err).Str("platform", platform).Msg("Failed to connect account")
		respondError(w, err)
		return
	}

	if err := h.events.Record("account.connect", "info", "Connected "+platform, user.Email); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to record connect event")
	}

	respondJSON(w, http.StatusOK, user.Sanitized())
}

// DisconnectAccount marks a social platform as disconnected.
func (h *AccountHandler) DisconnectAccount(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveSessionUser(h.service, r); err != nil {
		respondError(w, err)
		return
	}

	platform := chi.URLParam(r, "platform")
	user, err := h.service.DisconnectAccount(platform)
	if err != nil {
		log.Warn().Err(err).Str("platform", platform).Msg("Failed to disconnect account")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user.Sanitized())
}

// resolveSessionUser returns the store's active user, verifying it matches
// the token's subject. The store holds a single session pointer, so a stale
// token for a different account must not act on the active session.
func resolveSessionUser(svc services.AccountServiceProvider, r *http.Request) (models.User, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return models.User{}, apperrors.New(apperrors.CodeAuth, "missing credentials")
	}

	user, ok, err := svc.CurrentUser()
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, apperrors.New(apperrors.CodeNotFound, "no active session")
	}
	if user.Email != claims.Email {
		return models.User{}, apperrors.New(apperrors.CodeAuth, "token does not match the active session")
	}
	return user, nil
}

package handlers

import (
	"net/http"
	"time"

	"no-homers/interfaces"
	"no-homers/logging"
	"no-homers/middleware"
	"no-homers/models"

	"github.com/go-playground/validator/v10"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService interfaces.AuthService
	behindProxy bool
	tokenExpiry time.Duration
	validator   *validator.Validate
	logger      *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService interfaces.AuthService, behindProxy bool, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		behindProxy: behindProxy,
		tokenExpiry: tokenExpiry,
		validator:   newValidator(),
		logger:      logging.WithPrefix("AuthHandler"),
	}
}

// Login handles JSON login requests and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	authResponse, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.Email, err)
		writeError(w, r, err)
		return
	}

	h.setAuthCookie(w, authResponse.Token, time.Now().Add(h.tokenExpiry))
	h.logger.Infof("User %s (%s) logged in", authResponse.User.Name, authResponse.User.Email)
	writeJSON(w, http.StatusOK, authResponse)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	writeJSON(w, http.StatusOK, struct {
		User   models.User `json:"user"`
		Picker string      `json:"picker"`
	}{user.ToSafeUser(), user.Picker()})
}

type changePasswordRequest struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword replaces the signed-in user's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	var req changePasswordRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.authService.ChangePassword(user.ID, req.Current, req.New); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setAuthCookie writes the session cookie. Behind a TLS-terminating proxy the
// cookie is not marked Secure.
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !h.behindProxy,
		SameSite: http.SameSiteStrictMode,
	})
}

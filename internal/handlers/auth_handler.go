package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"authapi/internal/apperrors"
	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/models"
	"authapi/internal/repository"
	"authapi/internal/services"
	"authapi/internal/validation"
)

type AuthHandler struct {
	store    *repository.Store
	signer   *auth.Signer
	hasher   *auth.PasswordHasher
	notifier services.ResetNotifier
	cfg      *config.Config
}

func NewAuthHandler(store *repository.Store, signer *auth.Signer, cfg *config.Config, notifier services.ResetNotifier) *AuthHandler {
	return &AuthHandler{
		store:    store,
		signer:   signer,
		hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		notifier: notifier,
		cfg:      cfg,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	const missing = "Email, name, and password are required"
	if !validation.Validate(body, []string{"email", "name", "password"}) {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	fields, ok := stringFields(body, "email", "name", "password")
	if !ok {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	req := models.RegisterRequest{Email: fields["email"], Name: fields["name"], Password: fields["password"]}

	_, err = h.store.Users.GetByEmail(r.Context(), req.Email, false)
	switch {
	case err == nil:
		writeEmailTaken(w)
		return
	case !errors.Is(err, apperrors.ErrNotFound):
		writeInternalError(w, r, err, "register: lookup email")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if apperrors.Is(err, apperrors.CodeValidation) {
		writeFieldErrors(w, "", map[string]string{"password": "Password is too long"})
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "register: hash password")
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: hash}
	if err := h.store.Users.Create(r.Context(), user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if apperrors.Is(err, apperrors.CodeConflict) {
			writeEmailTaken(w)
			return
		}
		writeInternalError(w, r, err, "register: create user")
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.ID).Msg("user registered")
	writeJSONMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	const missing = "Email and password are required"
	if !validation.Validate(body, []string{"email", "password"}) {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	fields, ok := stringFields(body, "email", "password")
	if !ok {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	req := models.LoginRequest{Email: fields["email"], Password: fields["password"]}

	user, err := h.store.Users.GetByEmail(r.Context(), req.Email, true)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeFieldErrors(w, "Invalid email", map[string]string{"email": "Email is not registered"})
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "login: lookup email")
		return
	}

	match, err := h.hasher.Compare(user.Password, req.Password)
	if err != nil {
		writeInternalError(w, r, err, "login: compare password")
		return
	}
	if !match {
		writeFieldErrors(w, "Invalid password", map[string]string{"password": "Incorrect password"})
		return
	}

	token, err := h.signer.Sign(user)
	if err != nil {
		writeInternalError(w, r, err, "login: sign token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"data":    models.LoginResponse{Token: token, User: user.Public()},
	})
}

// ForgotPassword issues a reset token for a registered email and hands it to
// the notifier. The token is also echoed in the response while
// AuthReturnResetToken is enabled.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields, ok := stringFields(body, "email")
	if !ok || !validation.Validate(body, []string{"email"}) {
		writeJSONMessage(w, http.StatusBadRequest, "Email is required")
		return
	}
	req := models.ForgotPasswordRequest{Email: fields["email"]}

	user, err := h.store.Users.GetByEmail(r.Context(), req.Email, false)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeJSONMessage(w, http.StatusBadRequest, "Email is not registered")
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "forgot password: lookup email")
		return
	}

	reset, err := h.store.CreatePasswordResetToken(r.Context(), user.Email, uuid.NewString())
	if err != nil {
		writeInternalError(w, r, err, "forgot password: store token")
		return
	}

	if err := h.notifier.SendPasswordReset(r.Context(), reset.Email, reset.Token, reset.ExpiresAt); err != nil {
		if !h.cfg.AuthReturnResetToken {
			writeInternalError(w, r, err, "forgot password: deliver token")
			return
		}
		hlog.FromRequest(r).Warn().Err(err).Msg("reset token delivery failed")
	}

	resp := map[string]any{
		"success": true,
		"message": "Password reset token created",
	}
	if h.cfg.AuthReturnResetToken {
		resp["reset_token"] = reset.Token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeJSONMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	const missing = "Reset token and new password are required"
	if !validation.Validate(body, []string{"reset_token", "new_password"}) {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	fields, ok := stringFields(body, "reset_token", "new_password")
	if !ok {
		writeJSONMessage(w, http.StatusBadRequest, missing)
		return
	}
	req := models.ResetPasswordRequest{ResetToken: fields["reset_token"], NewPassword: fields["new_password"]}

	const invalid = "Invalid or expired reset token"
	reset, err := h.store.Resets.GetValid(r.Context(), req.ResetToken)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeJSONMessage(w, http.StatusBadRequest, invalid)
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "reset password: lookup token")
		return
	}

	hash, err := h.hasher.Hash(req.NewPassword)
	if apperrors.Is(err, apperrors.CodeValidation) {
		writeFieldErrors(w, "", map[string]string{"new_password": "Password is too long"})
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "reset password: hash password")
		return
	}

	err = h.store.ConsumePasswordResetToken(r.Context(), reset, hash)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeJSONMessage(w, http.StatusBadRequest, invalid)
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "reset password: consume token")
		return
	}

	writeJSONMessage(w, http.StatusOK, "Password has been reset successfully")
}

func writeEmailTaken(w http.ResponseWriter) {
	writeFieldErrors(w, "", map[string]string{"email": "Email is already registered"})
}

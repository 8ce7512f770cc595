package handlers

import (
	"errors"
	"net/http"

	"authapi/internal/apperrors"
	"authapi/internal/middleware"
	"authapi/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Profile returns the public fields of the user named by the bearer token.
// It must be mounted behind middleware.JWTAuth.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSONMessage(w, http.StatusUnauthorized, "Missing authorization header")
		return
	}

	u, err := h.users.GetByID(r.Context(), claims.ID, false)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeJSONMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeInternalError(w, r, err, "profile: lookup user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    u.Public(),
	})
}

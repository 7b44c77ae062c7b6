package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ScriptsHub07/venda3/internal/auth"
)

type AuthHandler struct {
	service *auth.Service
	session *Auth
}

func NewAuthHandler(service *auth.Service, session *Auth) *AuthHandler {
	return &AuthHandler{service: service, session: session}
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "email and a password of at least 8 characters are required")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.FullName)
	if errors.Is(err, auth.ErrDuplicateEmail) {
		respondError(w, http.StatusConflict, "email_taken", "email already registered")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to register")
		return
	}

	if err := h.session.SignIn(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start session")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	if err := h.session.SignIn(r.Context(), user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start session")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to end session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/bookstore/internal/auth/service/models/user"
	"github.com/corray333/bookstore/internal/auth/service/services/authsvc"
	"github.com/corray333/bookstore/internal/identity"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")

		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")

		return
	}

	u, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserExists) {
			writeError(w, http.StatusConflict, "User already exists")

			return
		}
		slog.Error("Error registering user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": u})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")

		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing email or password")

		return
	}

	token, u, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")

			return
		}
		slog.Error("Error logging in", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         u,
	})
}

func (h *HTTPTransport) validate(w http.ResponseWriter, r *http.Request) {
	principal, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  principal,
	})
}

func (h *HTTPTransport) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")

		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")

			return
		}
		slog.Error("Error getting user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *HTTPTransport) listUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")

		return
	}

	users, err := h.service.ListUsers(r.Context(), &user.User{
		ID:      principal.ID,
		Name:    principal.Name,
		Email:   principal.Email,
		IsAdmin: principal.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, authsvc.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Unauthorized")

			return
		}
		slog.Error("Error listing users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

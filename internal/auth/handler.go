package auth

import (
	"net/http"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/httpx"
	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		if apperr.CodeOf(err) == apperr.CodeDuplicateUser {
			logging.Info().Str("user", req.Username).Msg("registration rejected: duplicate username")
		}
		httpx.WriteError(w, r, err)
		return
	}

	logging.Info().Str("user", req.Username).Msg("user registered")
	httpx.WriteMessage(w, http.StatusCreated, "User registered successfully")
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Dashboard returns the identity carried by the caller's token.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.New(apperr.CodeMissingToken, "Access denied, no token provided"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, id)
}

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	validator    *validator.Validate
	cookieName   string
	cookieSecure bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookieName string, cookieSecure bool) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		validator:    validator.New(),
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

// MountRoutes registers the unauthenticated auth routes. Registration is
// mounted separately by the router behind the MANAGE_USERS gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
}

type loginUser struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	IsPlanActive bool     `json:"isPlanActive"`
	Permissions  []string `json:"permissions"`
}

type loginResponse struct {
	Token string    `json:"token,omitempty"`
	User  loginUser `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "identifier and secret are required.")
		return
	}

	result, err := h.service.Login(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	resp := loginResponse{
		User: loginUser{
			ID:           result.User.ID,
			Name:         result.User.DisplayName(),
			Role:         result.User.Role,
			IsPlanActive: result.PlanActive,
			Permissions:  result.Features,
		},
	}

	// Browser clients get the token as an http-only cookie; API and mobile
	// clients get it in the body.
	if DetectPlatform(r.UserAgent()) == PlatformWeb {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookieName,
			Value:    result.Token,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteStrictMode,
			Expires:  time.Now().Add(h.service.tokens.TTL()),
		})
	} else {
		resp.Token = result.Token
	}

	httpx.JSON(w, http.StatusOK, resp)
}

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile_num" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required"`
	ClientID  int64  `json:"client_id"`
	StoreID   int64  `json:"store_id"`
}

type registerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Mobile    string `json:"mobile_num"`
	Role      string `json:"role"`
}

// HandleRegister creates a user account. The router mounts it behind the
// MANAGE_USERS gate.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing or invalid registration fields.")
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		Password:  req.Password,
		Role:      req.Role,
		ClientID:  req.ClientID,
		StoreID:   req.StoreID,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("register", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, registerResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Mobile:    user.Mobile,
		Role:      user.Role,
	})
}

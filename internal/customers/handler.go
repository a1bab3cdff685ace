package customers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
	"github.com/easybiz-pos/easybiz-pos/internal/rbac"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Handler wires HTTP endpoints for customer management.
type Handler struct {
	logger  *slog.Logger
	service *Service
	gate    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers customer routes behind the authorization gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.gate.Authenticate)
	r.With(h.gate.RequireAny(rbac.FeatureViewCustomers, rbac.FeatureManageCustomers)).Get("/", h.list)
	r.With(h.gate.RequireAny(rbac.FeatureViewCustomers, rbac.FeatureManageCustomers)).Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(rbac.FeatureManageCustomers))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type customerRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"credit_limit"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	items, err := h.service.List(r.Context(), principal.ClientID)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.service.Get(r.Context(), principal.ClientID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	customer, err := h.service.Create(r.Context(), principal.ClientID, Customer{
		Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address, CreditLimit: req.CreditLimit,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	customer, err := h.service.Update(r.Context(), principal.ClientID, Customer{
		ID: id, Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address, CreditLimit: req.CreditLimit,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), principal.ClientID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Customer deleted."})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
	"github.com/easybiz-pos/easybiz-pos/internal/rbac"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

type catalogService interface {
	ListBrands(ctx context.Context, clientID int64) ([]Brand, error)
	CreateBrand(ctx context.Context, clientID int64, name string) (Brand, error)
	UpdateBrand(ctx context.Context, clientID, id int64, name string) (Brand, error)
	DeleteBrand(ctx context.Context, clientID, id int64) error
	ListCategories(ctx context.Context, clientID int64) ([]Category, error)
	CreateCategory(ctx context.Context, clientID int64, name string) (Category, error)
	UpdateCategory(ctx context.Context, clientID, id int64, name string) (Category, error)
	DeleteCategory(ctx context.Context, clientID, id int64) error
}

// Handler wires HTTP endpoints for brands and categories.
type Handler struct {
	logger  *slog.Logger
	service catalogService
	gate    rbac.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service catalogService, gate rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate}
}

// MountRoutes registers catalog routes behind the authorization gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.gate.Authenticate)

	r.Route("/brands", func(r chi.Router) {
		r.With(h.gate.RequireAny(rbac.FeatureViewBrands, rbac.FeatureManageBrands)).Get("/", h.listBrands)
		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireAny(rbac.FeatureManageBrands))
			r.Post("/", h.createBrand)
			r.Put("/{id}", h.updateBrand)
			r.Delete("/{id}", h.deleteBrand)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.With(h.gate.RequireAny(rbac.FeatureViewCategories, rbac.FeatureManageCategories)).Get("/", h.listCategories)
		r.Group(func(r chi.Router) {
			r.Use(h.gate.RequireAny(rbac.FeatureManageCategories))
			r.Post("/", h.createCategory)
			r.Put("/{id}", h.updateCategory)
			r.Delete("/{id}", h.deleteCategory)
		})
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listBrands(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	brands, err := h.service.ListBrands(r.Context(), principal.ClientID)
	if err != nil {
		h.logger.Error("list brands", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, brands)
}

func (h *Handler) createBrand(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	req, ok := decodeName(w, r)
	if !ok {
		return
	}
	brand, err := h.service.CreateBrand(r.Context(), principal.ClientID, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, brand)
}

func (h *Handler) updateBrand(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeName(w, r)
	if !ok {
		return
	}
	brand, err := h.service.UpdateBrand(r.Context(), principal.ClientID, id, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, brand)
}

func (h *Handler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteBrand(r.Context(), principal.ClientID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Brand deleted."})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	categories, err := h.service.ListCategories(r.Context(), principal.ClientID)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	req, ok := decodeName(w, r)
	if !ok {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), principal.ClientID, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeName(w, r)
	if !ok {
		return
	}
	category, err := h.service.UpdateCategory(r.Context(), principal.ClientID, id, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), principal.ClientID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Category deleted."})
}

func decodeName(w http.ResponseWriter, r *http.Request) (nameRequest, bool) {
	var req nameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return nameRequest{}, false
	}
	return req, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

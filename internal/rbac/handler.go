package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
)

type matrixService interface {
	ListMatrix(ctx context.Context) (Matrix, error)
	Grant(ctx context.Context, roleID, functionalityID int64) error
	Revoke(ctx context.Context, roleID, functionalityID int64) error
}

// Handler wires HTTP endpoints for permission-matrix administration.
type Handler struct {
	logger    *slog.Logger
	service   matrixService
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service matrixService) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers matrix routes. The caller is expected to gate the
// whole group behind an administrative feature.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/matrix", h.getMatrix)
	r.Post("/assign", h.assign)
	r.Delete("/assign", h.unassign)
}

type assignRequest struct {
	RoleID          int64 `json:"role_id" validate:"required,gt=0"`
	FunctionalityID int64 `json:"functionality_id" validate:"required,gt=0"`
}

func (h *Handler) getMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.ListMatrix(r.Context())
	if err != nil {
		h.logger.Error("list permission matrix", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, matrix)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssign(w, r)
	if !ok {
		return
	}
	if err := h.service.Grant(r.Context(), req.RoleID, req.FunctionalityID); err != nil {
		h.logger.Error("grant assignment", slog.Int64("role_id", req.RoleID), slog.Int64("functionality_id", req.FunctionalityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Permission granted."})
}

func (h *Handler) unassign(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssign(w, r)
	if !ok {
		return
	}
	if err := h.service.Revoke(r.Context(), req.RoleID, req.FunctionalityID); err != nil {
		h.logger.Error("revoke assignment", slog.Int64("role_id", req.RoleID), slog.Int64("functionality_id", req.FunctionalityID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Permission revoked."})
}

func (h *Handler) decodeAssign(w http.ResponseWriter, r *http.Request) (assignRequest, bool) {
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return assignRequest{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "role_id and functionality_id are required.")
		return assignRequest{}, false
	}
	return req, true
}

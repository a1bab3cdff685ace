package billing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/httpx"
	"github.com/easybiz-pos/easybiz-pos/internal/rbac"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Handler wires HTTP endpoints for billing and subscription flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      rbac.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, gate: gate, validator: validator.New()}
}

// MountRoutes registers billing routes. The webhook stays outside the
// authenticated group: the gateway holds no capability token.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/webhook", h.handleWebhook)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate)
		r.With(h.gate.RequireAny(rbac.FeatureViewBilling, rbac.FeatureViewPlans)).Get("/status", h.handleStatus)
		r.With(h.gate.RequireAny(rbac.FeatureViewBilling, rbac.FeatureViewPlans)).Get("/history", h.handleHistory)
		r.With(h.gate.RequireAny(rbac.FeatureRecharge)).Post("/recharge/initiate", h.handleInitiate)
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	status, err := h.service.Status(r.Context(), principal.ClientID)
	if err != nil {
		h.logger.Error("billing status", slog.Int64("client_id", principal.ClientID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Billing status fetched successfully.",
		"data":    status,
	})
}

type initiateRequest struct {
	PlanID     int64   `json:"plan_id" validate:"required,gt=0"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	PlanMonths int     `json:"plan_months" validate:"required,gt=0"`
	ReturnURL  string  `json:"return_url" validate:"required,url"`
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required plan or payment data.")
		return
	}

	principal := shared.PrincipalFromContext(r.Context())
	result, err := h.service.InitiateRecharge(r.Context(), InitiateInput{
		ClientID:   principal.ClientID,
		UserID:     principal.UserID,
		PlanID:     req.PlanID,
		Amount:     req.Amount,
		PlanMonths: req.PlanMonths,
		ReturnURL:  req.ReturnURL,
	})
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("initiate recharge", slog.Int64("client_id", principal.ClientID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":        "Payment initiated successfully.",
		"transaction_id": result.TransactionID,
		"payment_url":    result.PaymentURL,
	})
}

type webhookRequest struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	FailureReason string `json:"failure_reason"`
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid webhook payload.")
		return
	}
	if req.OrderID == "" {
		httpx.Error(w, http.StatusBadRequest, "order_id is required.")
		return
	}

	outcome, err := h.service.ProcessWebhook(r.Context(), WebhookInput{
		OrderID:       req.OrderID,
		Status:        req.Status,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		h.logger.Error("process payment webhook", slog.String("order_id", req.OrderID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error processing webhook.")
		return
	}

	// Always 200 once the transaction is located (or found already
	// settled) so the gateway stops retrying.
	if outcome.AlreadyHandled {
		httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Transaction already handled or not found."})
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Message{Message: "Webhook received and plan processed successfully."})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	txs, pagination, err := h.service.History(r.Context(), principal.ClientID, page, perPage)
	if err != nil {
		h.logger.Error("billing history", slog.Int64("client_id", principal.ClientID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":      "Recharge history fetched successfully.",
		"transactions": txs,
		"pagination":   pagination,
	})
}

package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Service coordinates billing operations: plan status, recharge initiation,
// webhook settlement and history.
type Service struct {
	repo       Repository
	gatewayURL string
	now        func() time.Time
}

// NewService builds a Service. gatewayURL is the mock payment gateway base.
func NewService(repo Repository, gatewayURL string) *Service {
	return &Service{repo: repo, gatewayURL: gatewayURL, now: time.Now}
}

// PlanActive reports whether the tenant's subscription is active right now.
// A missing plan record is an error, distinct from an expired plan.
func (s *Service) PlanActive(ctx context.Context, clientID int64) (bool, error) {
	expiry, err := s.repo.PlanExpiry(ctx, clientID)
	if err != nil {
		return false, err
	}
	return IsActive(expiry, s.now()), nil
}

// Status returns the tenant plan snapshot with the active flag evaluated.
func (s *Service) Status(ctx context.Context, clientID int64) (PlanStatus, error) {
	status, err := s.repo.PlanStatus(ctx, clientID)
	if err != nil {
		return PlanStatus{}, err
	}
	status.IsPlanActive = IsActive(status.PlanExpiryDate, s.now())
	return status, nil
}

// InitiateInput holds the fields accepted when starting a recharge.
type InitiateInput struct {
	ClientID   int64
	UserID     int64
	PlanID     int64
	Amount     float64
	PlanMonths int
	ReturnURL  string
}

// InitiateResult is handed back to the client for gateway redirection.
type InitiateResult struct {
	TransactionID int64  `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// InitiateRecharge logs a PENDING transaction, asks the gateway for a
// payment URL and stores the gateway order reference for webhook matching.
func (s *Service) InitiateRecharge(ctx context.Context, input InitiateInput) (InitiateResult, error) {
	if input.PlanID == 0 || input.Amount <= 0 || input.PlanMonths <= 0 || input.ReturnURL == "" {
		return InitiateResult{}, fmt.Errorf("%w: missing plan or payment data", shared.ErrValidation)
	}

	txID, err := s.repo.InsertPendingTransaction(ctx, input.ClientID, input.Amount, input.PlanMonths, input.UserID)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("billing: log pending transaction: %w", err)
	}

	orderRef := fmt.Sprintf("ORDER-%d-%s", txID, uuid.NewString())
	paymentURL := fmt.Sprintf("%s/pay?ref=%d&amount=%.2f&return=%s",
		strings.TrimRight(s.gatewayURL, "/"), txID, input.Amount, url.QueryEscape(input.ReturnURL))

	if err := s.repo.SetGatewayRef(ctx, txID, orderRef); err != nil {
		return InitiateResult{}, fmt.Errorf("billing: store gateway ref: %w", err)
	}

	return InitiateResult{TransactionID: txID, PaymentURL: paymentURL}, nil
}

// WebhookInput is the gateway confirmation payload, mapped from whatever
// the gateway posts.
type WebhookInput struct {
	OrderID       string
	Status        string
	FailureReason string
}

// WebhookOutcome describes what the webhook did.
type WebhookOutcome struct {
	AlreadyHandled bool
	Settled        string
	NewExpiry      *time.Time
}

// ProcessWebhook settles a gateway confirmation. The pending transaction is
// locked for the duration of the unit of work so a duplicate delivery finds
// no PENDING row and becomes a no-op.
func (s *Service) ProcessWebhook(ctx context.Context, input WebhookInput) (WebhookOutcome, error) {
	status := StatusFailed
	switch strings.ToLower(input.Status) {
	case "paid", "success":
		status = StatusSuccess
	}

	var outcome WebhookOutcome
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		pending, err := tx.LockPendingByRef(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				outcome.AlreadyHandled = true
				return nil
			}
			return err
		}

		if err := tx.UpdateTransactionStatus(ctx, input.OrderID, status, input.FailureReason); err != nil {
			return err
		}
		outcome.Settled = status

		if status != StatusSuccess {
			return nil
		}

		currentExpiry, err := tx.GetClientExpiry(ctx, pending.ClientID)
		if err != nil {
			return err
		}
		newExpiry := ExtendExpiry(currentExpiry, s.now(), pending.PlanMonths)
		if err := tx.UpdateClientExpiry(ctx, pending.ClientID, newExpiry); err != nil {
			return err
		}
		if err := tx.SetTransactionNewExpiry(ctx, input.OrderID, newExpiry); err != nil {
			return err
		}
		outcome.NewExpiry = &newExpiry
		return nil
	})
	if err != nil {
		return WebhookOutcome{}, err
	}
	return outcome, nil
}

// History returns a page of the tenant's recharge ledger.
func (s *Service) History(ctx context.Context, clientID int64, page, perPage int) ([]RechargeTransaction, shared.Pagination, error) {
	pagination := shared.NewPagination(page, perPage, 0)
	txs, total, err := s.repo.History(ctx, clientID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return txs, shared.NewPagination(pagination.Page, pagination.PerPage, total), nil
}

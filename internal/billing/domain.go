package billing

import "time"

// Recharge transaction statuses as stored in the database.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// PlanStatus is the tenant subscription snapshot returned by the status
// endpoint.
type PlanStatus struct {
	ClientName     string    `json:"clientName"`
	PlanName       string    `json:"planName"`
	PlanExpiryDate time.Time `json:"planExpiryDate"`
	IsPlanActive   bool      `json:"isPlanActive"`
}

// RechargeTransaction is one row of the recharge ledger.
type RechargeTransaction struct {
	ID              int64      `json:"id"`
	TransactionDate time.Time  `json:"transaction_date"`
	AmountPaid      float64    `json:"amount_paid"`
	PlanMonths      int        `json:"plan_months"`
	Status          string     `json:"status"`
	NewExpiryDate   *time.Time `json:"new_expiry_date"`
	GatewayRef      string     `json:"payment_gateway_ref"`
}

package billing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/db"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Repository defines persistence operations for the billing module.
type Repository interface {
	PlanStatus(ctx context.Context, clientID int64) (PlanStatus, error)
	PlanExpiry(ctx context.Context, clientID int64) (time.Time, error)
	InsertPendingTransaction(ctx context.Context, clientID int64, amount float64, months int, userID int64) (int64, error)
	SetGatewayRef(ctx context.Context, transactionID int64, ref string) error
	History(ctx context.Context, clientID int64, limit, offset int) ([]RechargeTransaction, int, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the webhook operations that must run atomically.
type TxRepository interface {
	LockPendingByRef(ctx context.Context, gatewayRef string) (PendingTransaction, error)
	UpdateTransactionStatus(ctx context.Context, gatewayRef, status, failureReason string) error
	SetTransactionNewExpiry(ctx context.Context, gatewayRef string, newExpiry time.Time) error
	GetClientExpiry(ctx context.Context, clientID int64) (time.Time, error)
	UpdateClientExpiry(ctx context.Context, clientID int64, newExpiry time.Time) error
}

// PendingTransaction is the locked row the webhook operates on.
type PendingTransaction struct {
	ClientID   int64
	PlanMonths int
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// PlanStatus fetches the tenant's plan snapshot.
func (r *PGRepository) PlanStatus(ctx context.Context, clientID int64) (PlanStatus, error) {
	row := r.pool.QueryRow(ctx, `SELECT c.business_name, COALESCE(p.name, 'N/A'), c.plan_expiry_date
FROM clients c
LEFT JOIN plans p ON p.id = c.current_plan_id
WHERE c.id = $1`, clientID)

	var status PlanStatus
	if err := row.Scan(&status.ClientName, &status.PlanName, &status.PlanExpiryDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanStatus{}, shared.ErrPlanMissing
		}
		return PlanStatus{}, err
	}
	return status, nil
}

// PlanExpiry fetches just the expiry timestamp used for plan gating.
func (r *PGRepository) PlanExpiry(ctx context.Context, clientID int64) (time.Time, error) {
	var expiry time.Time
	err := r.pool.QueryRow(ctx, `SELECT plan_expiry_date FROM clients WHERE id = $1`, clientID).Scan(&expiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, shared.ErrPlanMissing
		}
		return time.Time{}, err
	}
	return expiry, nil
}

// InsertPendingTransaction logs a PENDING recharge and returns its id.
func (r *PGRepository) InsertPendingTransaction(ctx context.Context, clientID int64, amount float64, months int, userID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO client_recharge_transactions
(client_id, amount_paid, plan_months, status, updated_by)
VALUES ($1, $2, $3, 'PENDING', $4)
RETURNING id`, clientID, amount, months, userID).Scan(&id)
	return id, err
}

// SetGatewayRef stores the gateway order reference used for webhook
// matching.
func (r *PGRepository) SetGatewayRef(ctx context.Context, transactionID int64, ref string) error {
	_, err := r.pool.Exec(ctx, `UPDATE client_recharge_transactions
SET payment_gateway_ref = $1 WHERE id = $2`, ref, transactionID)
	return err
}

// History returns a page of the tenant's recharge ledger plus the total row
// count.
func (r *PGRepository) History(ctx context.Context, clientID int64, limit, offset int) ([]RechargeTransaction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM client_recharge_transactions WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, transaction_date, amount_paid, plan_months, status, new_expiry_date, COALESCE(payment_gateway_ref, '')
FROM client_recharge_transactions
WHERE client_id = $1
ORDER BY transaction_date DESC
LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs := []RechargeTransaction{}
	for rows.Next() {
		var (
			tx        RechargeTransaction
			newExpiry pgtype.Timestamptz
		)
		if err := rows.Scan(&tx.ID, &tx.TransactionDate, &tx.AmountPaid, &tx.PlanMonths, &tx.Status, &newExpiry, &tx.GatewayRef); err != nil {
			return nil, 0, err
		}
		if newExpiry.Valid {
			t := newExpiry.Time
			tx.NewExpiryDate = &t
		}
		txs = append(txs, tx)
	}
	return txs, total, rows.Err()
}

// WithTx runs the callback inside a transaction; any error rolls the whole
// unit of work back.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

// LockPendingByRef selects the PENDING transaction for the gateway ref with
// a row lock held until commit or rollback, so a duplicate webhook delivery
// cannot apply the same recharge twice.
func (t *txRepository) LockPendingByRef(ctx context.Context, gatewayRef string) (PendingTransaction, error) {
	row := t.tx.QueryRow(ctx, `SELECT client_id, plan_months
FROM client_recharge_transactions
WHERE payment_gateway_ref = $1 AND status = 'PENDING'
FOR UPDATE`, gatewayRef)

	var pending PendingTransaction
	if err := row.Scan(&pending.ClientID, &pending.PlanMonths); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PendingTransaction{}, shared.ErrNotFound
		}
		return PendingTransaction{}, err
	}
	return pending, nil
}

func (t *txRepository) UpdateTransactionStatus(ctx context.Context, gatewayRef, status, failureReason string) error {
	_, err := t.tx.Exec(ctx, `UPDATE client_recharge_transactions
SET status = $1, failure_reason = $2, updated_at = NOW()
WHERE payment_gateway_ref = $3`, status, pgtype.Text{String: failureReason, Valid: failureReason != ""}, gatewayRef)
	return err
}

func (t *txRepository) SetTransactionNewExpiry(ctx context.Context, gatewayRef string, newExpiry time.Time) error {
	_, err := t.tx.Exec(ctx, `UPDATE client_recharge_transactions
SET new_expiry_date = $1 WHERE payment_gateway_ref = $2`, newExpiry, gatewayRef)
	return err
}

func (t *txRepository) GetClientExpiry(ctx context.Context, clientID int64) (time.Time, error) {
	var expiry time.Time
	err := t.tx.QueryRow(ctx, `SELECT plan_expiry_date FROM clients WHERE id = $1`, clientID).Scan(&expiry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, shared.ErrPlanMissing
		}
		return time.Time{}, err
	}
	return expiry, nil
}

func (t *txRepository) UpdateClientExpiry(ctx context.Context, clientID int64, newExpiry time.Time) error {
	_, err := t.tx.Exec(ctx, `UPDATE clients
SET plan_expiry_date = $1, updated_at = NOW() WHERE id = $2`, newExpiry, clientID)
	return err
}

var _ Repository = (*PGRepository)(nil)

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpiryScanJob finds clients whose subscription expires within the window
// and queues reminder emails for their owners.
type ExpiryScanJob struct {
	Pool   *pgxpool.Pool
	Mailer *Client
	Logger *slog.Logger
	clock  func() time.Time
}

// NewExpiryScanJob initialises the expiry scan handler.
func NewExpiryScanJob(pool *pgxpool.Pool, mailer *Client, logger *slog.Logger) *ExpiryScanJob {
	return &ExpiryScanJob{
		Pool:   pool,
		Mailer: mailer,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type expiringClient struct {
	ClientID int64
	Name     string
	Email    string
	Expiry   time.Time
}

// Handle executes the expiry scan logic.
func (j *ExpiryScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("expiry scan: handler not configured")
	}
	var payload ExpiryScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = 7
	}

	now := j.clock()
	logger := j.logger().With(slog.Int("window_days", payload.WindowDays))
	logger.Info("starting plan expiry scan")

	clients, err := j.scan(ctx, now, payload.WindowDays)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	queued := 0
	for _, c := range clients {
		if c.Email == "" {
			continue
		}
		payload := SendEmailPayload{
			To:      c.Email,
			Subject: "Your subscription is about to expire",
			Body:    fmt.Sprintf("Hi %s, your plan expires on %s. Recharge to keep full access.", c.Name, c.Expiry.Format("02 Jan 2006")),
		}
		if j.Mailer != nil {
			if _, err := j.Mailer.EnqueueSendEmail(ctx, payload); err != nil {
				logger.Warn("enqueue reminder", slog.Int64("client_id", c.ClientID), slog.Any("error", err))
				continue
			}
		}
		queued++
	}

	logger.Info("completed plan expiry scan",
		slog.Int("expiring", len(clients)),
		slog.Int("reminders_queued", queued),
		slog.Duration("duration", time.Since(now)),
	)
	return nil
}

func (j *ExpiryScanJob) scan(ctx context.Context, now time.Time, windowDays int) ([]expiringClient, error) {
	if j.Pool == nil {
		return nil, errors.New("expiry scan: pool not configured")
	}
	cutoff := now.AddDate(0, 0, windowDays)
	rows, err := j.Pool.Query(ctx, `SELECT id, business_name, COALESCE(contact_email, ''), plan_expiry_date
FROM clients
WHERE plan_expiry_date > $1 AND plan_expiry_date <= $2
ORDER BY plan_expiry_date`, now, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []expiringClient
	for rows.Next() {
		var c expiringClient
		if err := rows.Scan(&c.ClientID, &c.Name, &c.Email, &c.Expiry); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (j *ExpiryScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PendingSweepJob marks recharge transactions stuck in PENDING as FAILED once
// the gateway can no longer deliver a webhook for them.
type PendingSweepJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewPendingSweepJob initialises the pending sweep handler.
func NewPendingSweepJob(pool *pgxpool.Pool, logger *slog.Logger) *PendingSweepJob {
	return &PendingSweepJob{
		Pool:   pool,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the pending sweep logic.
func (j *PendingSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("pending sweep: handler not configured")
	}
	var payload PendingSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.OlderThanHours <= 0 {
		payload.OlderThanHours = 24
	}

	now := j.clock()
	cutoff := now.Add(-time.Duration(payload.OlderThanHours) * time.Hour)

	if j.Pool == nil {
		return errors.New("pending sweep: pool not configured")
	}
	tag, err := j.Pool.Exec(ctx, `UPDATE client_recharge_transactions
SET status = 'FAILED', failure_reason = 'Abandoned: no gateway confirmation received'
WHERE status = 'PENDING' AND transaction_date < $1`, cutoff)
	if err != nil {
		j.logger().Error("pending sweep failed", slog.Any("error", err))
		return err
	}

	j.logger().Info("completed pending sweep",
		slog.Int("older_than_hours", payload.OlderThanHours),
		slog.Int64("swept", tag.RowsAffected()),
		slog.Duration("duration", time.Since(now)),
	)
	return nil
}

func (j *PendingSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

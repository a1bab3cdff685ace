package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskBillingExpiryScan finds clients whose plan expires soon and queues reminders.
	TaskBillingExpiryScan = "billing:expiry_scan"
	// TaskBillingPendingSweep fails recharge transactions stuck in PENDING.
	TaskBillingPendingSweep = "billing:pending_sweep"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with the SMTP relay once it is provisioned.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// ExpiryScanPayload controls how far ahead the scan looks.
type ExpiryScanPayload struct {
	WindowDays int `json:"window_days"`
}

// NewExpiryScanTask constructs a plan-expiry scan task.
func NewExpiryScanTask(windowDays int) (*asynq.Task, error) {
	data, err := json.Marshal(ExpiryScanPayload{WindowDays: windowDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBillingExpiryScan, data), nil
}

// PendingSweepPayload controls the staleness cutoff for the sweep.
type PendingSweepPayload struct {
	OlderThanHours int `json:"older_than_hours"`
}

// NewPendingSweepTask constructs a pending-transaction sweep task.
func NewPendingSweepTask(olderThanHours int) (*asynq.Task, error) {
	data, err := json.Marshal(PendingSweepPayload{OlderThanHours: olderThanHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBillingPendingSweep, data), nil
}

// Package jobs contains the background task types and the Asynq worker
// wiring for the identity service.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeTokenPurge is the task type for purging stale confirmation tokens.
	TaskTypeTokenPurge = "tokens:purge"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task carrying an email payload.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewTokenPurgeTask constructs the expired-token purge task.
func NewTokenPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskTypeTokenPurge, nil)
}

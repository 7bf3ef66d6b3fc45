package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// TokenStore is the slice of the identity store the purge job needs.
type TokenStore interface {
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// TokenPurgeJob removes used and expired confirmation tokens on a schedule.
type TokenPurgeJob struct {
	store  TokenStore
	logger *slog.Logger
}

// NewTokenPurgeJob constructs the purge job.
func NewTokenPurgeJob(store TokenStore, logger *slog.Logger) *TokenPurgeJob {
	return &TokenPurgeJob{store: store, logger: logger}
}

// Handle processes TaskTypeTokenPurge tasks.
func (j *TokenPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	deleted, err := j.store.DeleteExpiredTokens(ctx)
	if err != nil {
		j.logger.Error("token purge failed", slog.Any("error", err))
		return err
	}
	j.logger.Info("token purge completed", slog.Int64("deleted", deleted))
	return nil
}

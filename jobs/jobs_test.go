package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/brightcart/identity/testing"
)

func TestEnqueueSendEmail(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() {
		_ = client.Close()
	}()

	info, err := client.EnqueueSendEmail(context.Background(), SendEmailPayload{
		To:      "jane@example.com",
		Subject: "Please confirm your email address",
		Body:    "body",
	})

	require.NoError(t, err)
	assert.Equal(t, TaskTypeSendEmail, info.Type)
	assert.Equal(t, QueueDefault, info.Queue)
}

func TestConfirmationNotifierBuildsLink(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() {
		_ = client.Close()
	}()

	notifier := NewConfirmationNotifier(client, "https://shop.example.com")
	err = notifier.SendConfirmationEmail(context.Background(), "jane@example.com", "tok-en_1")
	require.NoError(t, err)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer func() {
		_ = inspector.Close()
	}()
	tasks, err := inspector.ListPendingTasks(QueueDefault)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	var payload SendEmailPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload, &payload))
	assert.Equal(t, "jane@example.com", payload.To)
	assert.Contains(t, payload.Body, "https://shop.example.com/confirm?email=jane%40example.com&token=tok-en_1")
}

func TestMailerSkipsMalformedPayload(t *testing.T) {
	mailer := NewMailer("127.0.0.1", 1025, "no-reply@example.com", "", "", slog.Default())

	task := asynq.NewTask(TaskTypeSendEmail, []byte("{not json"))
	err := mailer.HandleSendEmailTask(context.Background(), task)

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type stubTokenStore struct {
	deleted int64
	err     error
	calls   int
}

func (s *stubTokenStore) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func TestTokenPurgeJob(t *testing.T) {
	store := &stubTokenStore{deleted: 3}
	job := NewTokenPurgeJob(store, slog.Default())

	err := job.Handle(context.Background(), NewTokenPurgeTask())

	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestTokenPurgeJobPropagatesError(t *testing.T) {
	store := &stubTokenStore{err: errors.New("db down")}
	job := NewTokenPurgeJob(store, slog.Default())

	err := job.Handle(context.Background(), NewTokenPurgeTask())

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db down"))
}

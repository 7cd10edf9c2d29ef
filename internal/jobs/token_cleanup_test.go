package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollportal/internal/app/models"
	"github.com/yigit/enrollportal/internal/app/repositories/memory"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) ClearExpiredTokens(context.Context, time.Time) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestTokenCleanupJob_Run(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	id, err := users.Create(ctx, memoryUser("a@example.com"))
	require.NoError(t, err)
	live, err := users.Create(ctx, memoryUser("b@example.com"))
	require.NoError(t, err)

	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.SetToken(ctx, id, "expired", now.Add(-time.Minute)))
	require.NoError(t, users.SetToken(ctx, live, "live", now.Add(time.Hour)))

	job := NewTokenCleanupJob(users, zerolog.Nop())
	job.now = func() time.Time { return now }
	job.Run()

	_, err = users.GetByToken(ctx, "expired")
	assert.Error(t, err)
	_, err = users.GetByToken(ctx, "live")
	assert.NoError(t, err)
}

func TestTokenCleanupJob_RunLogsErrors(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	job := NewTokenCleanupJob(cleaner, zerolog.Nop())

	assert.NotPanics(t, job.Run)
	assert.Equal(t, int32(1), cleaner.calls.Load())
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	job := NewTokenCleanupJob(&countingCleaner{}, zerolog.Nop())

	assert.NoError(t, s.Add("token-cleanup", "@hourly", job))
	assert.NoError(t, s.Add("token-cleanup", "*/5 * * * *", job))
	assert.Error(t, s.Add("token-cleanup", "not a schedule", job))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_LogsRecoveredPanics(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(zerolog.New(&buf))

	require.NoError(t, s.Add("exploding", "@hourly", cron.FuncJob(func() { panic("boom") })))
	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	assert.NotPanics(t, entries[0].WrappedJob.Run)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "boom")
}

func memoryUser(email string) *models.User {
	return &models.User{Name: "User", Email: email, Password: "hash"}
}

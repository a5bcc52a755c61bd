package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) SweepOrphans(ctx context.Context) (int64, error) {
	f.calls++
	return 2, f.err
}

type fakeQueue struct {
	reasons []string
	err     error
}

func (f *fakeQueue) EnqueueOrphanSweep(ctx context.Context, reason string) error {
	f.reasons = append(f.reasons, reason)
	return f.err
}

func TestRunNow_Direct(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewOrphanSweepScheduler("0 3 * * *", sweeper, nil, nil)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, 1, sweeper.calls)
}

func TestRunNow_DirectError(t *testing.T) {
	boom := errors.New("disk I/O error")
	s := NewOrphanSweepScheduler("0 3 * * *", &fakeSweeper{err: boom}, nil, nil)

	assert.ErrorIs(t, s.RunNow(context.Background()), boom)
}

func TestRunNow_Queued(t *testing.T) {
	sweeper := &fakeSweeper{}
	queue := &fakeQueue{}
	s := NewOrphanSweepScheduler("0 3 * * *", sweeper, queue, nil)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, []string{"manual"}, queue.reasons)
	assert.Equal(t, 0, sweeper.calls, "queued sweeps do not run in-process")
}

func TestStartStop(t *testing.T) {
	s := NewOrphanSweepScheduler("0 3 * * *", &fakeSweeper{}, nil, nil)
	assert.Nil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestStart_StopsWithContext(t *testing.T) {
	s := NewOrphanSweepScheduler("*/15 * * * *", &fakeSweeper{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewOrphanSweepScheduler("every night", &fakeSweeper{}, nil, nil)

	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestCronHelpers(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.Error(t, ValidateCronSchedule("0 3 * *"))

	assert.Equal(t, "Daily at 03:00", GetCronDescription("0 3 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))

	from := time.Date(2024, 1, 1, 4, 0, 0, 0, time.Local)
	next, err := GetNextRunTime("0 3 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 0, 0, 0, time.Local), *next)

	_, err = GetNextRunTime("nope", from)
	assert.Error(t, err)
}

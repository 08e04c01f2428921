package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrobot/horoscopebot/internal/bot/tasks"
	"github.com/astrobot/horoscopebot/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingListener struct{ started atomic.Bool }

func (l *blockingListener) Start(ctx context.Context) {
	l.started.Store(true)
	<-ctx.Done()
}

type returningListener struct{}

func (returningListener) Start(context.Context) {}

type loopFunc func(ctx context.Context) error

func (f loopFunc) Loop(ctx context.Context) error { return f(ctx) }

func newTestScheduler(t *testing.T, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) *Scheduler {
	t.Helper()
	s, err := NewScheduler(discard(), cfg, time.UTC, taskMap)
	require.NoError(t, err)
	return s
}

func TestRunStopsOnCancel(t *testing.T) {
	listener := &blockingListener{}
	var loopRan atomic.Bool
	loop := loopFunc(func(ctx context.Context) error {
		loopRan.Store(true)
		<-ctx.Done()
		return nil
	})
	sched := newTestScheduler(t, &config.SchedulerConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewBot(discard(), listener, loop, sched).Run(ctx) }()

	require.Eventually(t, func() bool { return listener.started.Load() && loopRan.Load() }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop")
	}
}

func TestRunListenerStoppedUnexpectedly(t *testing.T) {
	err := NewBot(discard(), returningListener{}, nil, nil).Run(context.Background())
	assert.ErrorContains(t, err, "stopped unexpectedly")
}

func TestRunDeliveryLoopError(t *testing.T) {
	loop := loopFunc(func(context.Context) error { return errors.New("boom") })
	err := NewBot(discard(), &blockingListener{}, loop, nil).Run(context.Background())
	assert.ErrorContains(t, err, "delivery loop failed")
}

func TestSchedulerStartSkipsDisabledAndUnknown(t *testing.T) {
	noop := func(context.Context) error { return nil }
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		config.TaskSQLMaintenance: {Enabled: true, Schedule: "0 3 * * 0"},
		config.TaskRateLimitPrune: {Enabled: false, Schedule: "*/15 * * * *"},
		"unknown":                 {Enabled: true, Schedule: "* * * * *"},
		"bad_schedule":            {Enabled: true, Schedule: "not a cron"},
	}}
	s := newTestScheduler(t, cfg, map[string]tasks.ScheduledTaskFunc{
		config.TaskSQLMaintenance: noop,
		config.TaskRateLimitPrune: noop,
		"bad_schedule":            noop,
	})

	require.NoError(t, s.Start())
	assert.Equal(t, []string{config.TaskSQLMaintenance}, s.Scheduled())
	assert.Error(t, s.Start(), "second start is rejected")

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestSchedulerWrapSwallowsErrors(t *testing.T) {
	s := newTestScheduler(t, nil, nil)
	var calls atomic.Int32
	run := s.wrap("failing", func(context.Context) error {
		calls.Add(1)
		return errors.New("nope")
	})
	assert.NotPanics(t, run)
	assert.Equal(t, int32(1), calls.Load())
}

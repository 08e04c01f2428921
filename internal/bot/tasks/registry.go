package tasks

import (
	"context"

	"github.com/astrobot/horoscopebot/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task. The context
// provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the scheduled tasks keyed by the names used in
// the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[config.TaskSQLMaintenance] = newSQLMaintenanceTask(deps)
	tasks[config.TaskRateLimitPrune] = newRateLimitPruneTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}

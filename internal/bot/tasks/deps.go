// Package tasks implements the periodic maintenance jobs run by the
// scheduler, with their dependencies and registration.
package tasks

import (
	"context"
	"log/slog"

	"github.com/astrobot/horoscopebot/internal/config"
	"github.com/astrobot/horoscopebot/internal/ratelimit"
)

// Maintainer runs storage housekeeping.
type Maintainer interface {
	RunSQLMaintenance(ctx context.Context) error
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   Maintainer
	Limiter *ratelimit.Limiter
	Config  *config.Config
}

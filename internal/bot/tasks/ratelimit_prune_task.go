package tasks

import (
	"context"
)

// newRateLimitPruneTask drops rate limiter entries older than the configured
// age so chats that went quiet do not accumulate.
func newRateLimitPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "ratelimit_prune")

	return func(ctx context.Context) error {
		maxAge := deps.Config.Registration.PruneAfter
		removed := deps.Limiter.Prune(maxAge)
		log.InfoContext(ctx, "Pruned rate limiter entries", "removed", removed, "remaining", deps.Limiter.Len(), "max_age", maxAge)
		return nil
	}
}

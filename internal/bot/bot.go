// Package bot wires the long-running parts of the horoscope bot together and
// manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Listener receives chat updates until its context is cancelled.
type Listener interface {
	Start(ctx context.Context)
}

// DeliveryLoop runs the daily delivery schedule until its context is cancelled.
type DeliveryLoop interface {
	Loop(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	listener  Listener
	delivery  DeliveryLoop
	scheduler *Scheduler
}

// NewBot creates the orchestrator. A nil delivery loop disables daily delivery.
func NewBot(logger *slog.Logger, listener Listener, delivery DeliveryLoop, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		listener:  listener,
		delivery:  delivery,
		scheduler: scheduler,
	}
}

// Run starts the listener, the delivery loop and the scheduler, and blocks
// until ctx is cancelled or one of them fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.listener.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	if b.delivery != nil {
		g.Go(func() error {
			b.logger.Info("Starting delivery loop...")
			if err := b.delivery.Loop(gCtx); err != nil {
				return fmt.Errorf("delivery loop failed: %w", err)
			}
			return nil
		})
	} else {
		b.logger.Info("Daily delivery disabled")
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

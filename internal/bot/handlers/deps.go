package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/astrobot/horoscopebot/internal/config"
	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/delivery"
	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/ratelimit"
	"github.com/astrobot/horoscopebot/internal/registration"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	Conversation *registration.Conversation
	Delivery     *delivery.Service
	Limiter      *ratelimit.Limiter
	Texts        *locale.Table

	// InFlight tracks work detached from the update worker. Optional.
	InFlight *sync.WaitGroup
}

// language picks the reply language for a chat: the open registration's
// language, then the stored profile's, then the fallback.
func (d HandlerDeps) language(ctx context.Context, chatID int64) locale.Language {
	if d.Conversation.State(chatID) != registration.Idle {
		return d.Conversation.Language(chatID)
	}
	if p, err := d.Store.GetActiveProfile(ctx, chatID); err == nil && p != nil {
		return p.Language
	}
	return d.Texts.Fallback()
}

// detach runs fn off the update worker so a long generation does not hold up
// the updates queued behind it.
func (d HandlerDeps) detach(fn func()) {
	if d.InFlight == nil {
		go fn()
		return
	}
	d.InFlight.Add(1)
	go func() {
		defer d.InFlight.Done()
		fn()
	}()
}

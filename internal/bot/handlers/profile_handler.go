package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/zodiac"
)

// NewProfileHandler returns a handler for the /profile command.
func NewProfileHandler(deps HandlerDeps) bot.HandlerFunc {
	return profileHandler{deps}.Handle
}

// profileHandler shows the stored registration with the derived zodiac sign.
type profileHandler struct {
	deps HandlerDeps
}

func (h profileHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "profile")

	msg, ok := incoming(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	p, err := h.deps.Store.GetActiveProfile(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load profile", "error", err, "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.ErrorTryAgain, h.deps.Texts.Fallback()))
		return
	}
	if p == nil {
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.NotRegistered, h.deps.language(ctx, chatID)))
		return
	}

	sign := "?"
	if s, err := zodiac.SignForDate(p.Birthdate); err == nil {
		sign = s.Name(p.Language)
	}

	reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.ProfileCard, p.Language,
		p.Name,
		p.Birthdate,
		sign,
		string(p.Language),
		p.Profession,
		p.Hobbies,
		p.Sex,
		p.CreatedAt.Format(time.DateOnly),
	))
}

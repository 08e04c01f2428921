package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHoroscopeHandler returns a handler for the /horoscope command.
func NewHoroscopeHandler(deps HandlerDeps) bot.HandlerFunc {
	return horoscopeHandler{deps}.Handle
}

// horoscopeHandler generates a horoscope on demand.
type horoscopeHandler struct {
	deps HandlerDeps
}

func (h horoscopeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "horoscope")

	msg, ok := incoming(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	if !h.deps.Limiter.Allow(chatID) {
		log.DebugContext(ctx, "Horoscope request rate limited", "chat_id", chatID)
		reply(ctx, b, log, chatID, h.deps.Conversation.RateLimitedText(h.deps.language(ctx, chatID)))
		return
	}

	log.InfoContext(ctx, "Handling /horoscope command", "chat_id", chatID, "user_id", msg.From.ID)

	h.deps.detach(func() {
		typingCtx, stopTyping := context.WithCancel(ctx)
		defer stopTyping()
		go keepTyping(typingCtx, b, log, chatID)

		if err := h.deps.Delivery.DeliverNow(ctx, chatID); err != nil {
			log.ErrorContext(ctx, "On-demand delivery failed", "chat_id", chatID, "error", err)
		}
	})
}

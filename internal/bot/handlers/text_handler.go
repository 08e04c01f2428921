package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// NewTextHandler returns the default handler. Plain text feeds the open
// registration; anything else gets a pointer to /start.
func NewTextHandler(deps HandlerDeps) bot.HandlerFunc {
	return textHandler{deps}.Handle
}

type textHandler struct {
	deps HandlerDeps
}

func (h textHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "text")

	msg, ok := incoming(update)
	if !ok || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID

	if strings.HasPrefix(msg.Text, "/") {
		log.DebugContext(ctx, "Unknown command", "chat_id", chatID, "text", msg.Text)
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.Help, h.deps.language(ctx, chatID)))
		return
	}

	r, handled := h.deps.Conversation.Answer(ctx, chatID, msg.Text)
	if !handled {
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.NoConversation, h.deps.language(ctx, chatID)))
		return
	}
	reply(ctx, b, log, chatID, r.Text)
}

package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler opens a registration or greets an already registered chat.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	msg, ok := incoming(update)
	if !ok {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", msg.From.ID)

	r := h.deps.Conversation.Start(ctx, chatID)
	reply(ctx, b, log, chatID, r.Text)
}

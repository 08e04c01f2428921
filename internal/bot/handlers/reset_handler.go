package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const resetTimeout = 30 * time.Second

// NewResetHandler returns a handler for the /reset command.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

// resetHandler deletes the chat's profile and any open registration.
type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")
	msg, ok := incoming(update)
	if !ok {
		log.ErrorContext(ctx, "Reset handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	log.InfoContext(ctx, "User requested data reset", "chat_id", chatID, "user_id", msg.From.ID)

	timeoutCtx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	r := h.deps.Conversation.Reset(timeoutCtx, chatID)
	reply(ctx, b, log, chatID, r.Text)
}

package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCancelHandler returns a handler for the /cancel command.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return cancelHandler{deps}.Handle
}

type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	msg, ok := incoming(update)
	if !ok {
		return
	}

	r := h.deps.Conversation.Cancel(ctx, msg.Chat.ID)
	reply(ctx, b, log, msg.Chat.ID, r.Text)
}

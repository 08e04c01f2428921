package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// reply sends text to chatID and logs a failed send.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// incoming returns the message of an update when it has a sender.
func incoming(update *models.Update) (*models.Message, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}
	return update.Message, true
}

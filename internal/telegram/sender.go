package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Sender sends plain text messages through a bot client.
type Sender struct {
	b *bot.Bot
}

// NewSender wraps b for outbound delivery.
func NewSender(b *bot.Bot) *Sender {
	return &Sender{b: b}
}

// SendText sends text to chatID.
func (s *Sender) SendText(ctx context.Context, chatID int64, text string) error {
	if _, err := s.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

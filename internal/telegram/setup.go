// Package telegram creates the go-telegram/bot client, registers the bot's
// handlers and adapts the client for outbound delivery.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/bot/handlers"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// applyMiddleware wraps a handler function with a slice of middleware.
// The first middleware in the slice is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers command handlers with the bot instance,
// wrapping each in its own middleware.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	log.Info("Registering Telegram handlers...", "count", len(registeredHandlers))

	for _, regHandler := range registeredHandlers {
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", regHandler.Pattern)
			continue
		}

		finalHandler := applyMiddleware(regHandler.Handler, regHandler.Middleware)
		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, finalHandler)
		log.Debug("Registered handler", "pattern", regHandler.Pattern, "match_type", regHandler.MatchType, "middleware_count", len(regHandler.Middleware))
	}

	log.Info("Registered Telegram handlers successfully", "count", len(registeredHandlers))
	return nil
}

// BotCommands lists the public commands with their descriptions, sorted by
// name. Admin-only commands are left out of the menu.
func BotCommands(registeredHandlers map[string]handlers.RegisteredHandler) []models.BotCommand {
	var cmds []models.BotCommand
	for _, h := range registeredHandlers {
		if h.Description == "" || h.AdminOnly {
			continue
		}
		cmds = append(cmds, models.BotCommand{Command: h.Pattern, Description: h.Description})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Command < cmds[j].Command })
	return cmds
}

// SetCommands publishes the public command menu.
func SetCommands(ctx context.Context, b *bot.Bot, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	cmds := BotCommands(registeredHandlers)
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: cmds}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	logger.Info("Published bot command menu", "count", len(cmds))
	return nil
}

// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/locale"
)

// AdminOnly creates a middleware that lets only configured admins through.
// Anyone else gets a "not authorized" reply and the handler is skipped.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.Telegram.IsAdmin(userID) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AdminOnly")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				reply(ctx, bot, log, chatID, deps.Texts.Text(locale.NotAuthorized, deps.language(ctx, chatID)))
				return
			}

			next(ctx, bot, update)
		}
	}
}

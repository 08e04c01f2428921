package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// DispatchOptions returns the bot options that route updates to handlers.
// Updates are processed by a single worker and each handler runs to
// completion before the next update is taken, so the turns of one chat are
// handled in arrival order. Slow work is handed to HandlerDeps.detach.
func DispatchOptions(defaultHandler tgbot.HandlerFunc) []tgbot.Option {
	return []tgbot.Option{
		tgbot.WithWorkers(1),
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithDefaultHandler(defaultHandler),
	}
}

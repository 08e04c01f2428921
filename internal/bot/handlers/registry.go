package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	Description string
	AdminOnly   bool
}

func command(pattern, description string, handler tgbot.HandlerFunc) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     handler,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: description,
	}
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// It configures each command with appropriate handlers and middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = command("start", "Start registration", NewStartHandler(deps))
	handlers["/cancel"] = command("cancel", "Cancel registration", NewCancelHandler(deps))
	handlers["/reset"] = command("reset", "Delete your data and start over", NewResetHandler(deps))
	handlers["/horoscope"] = command("horoscope", "Get your horoscope now", NewHoroscopeHandler(deps))
	handlers["/profile"] = command("profile", "Show your profile", NewProfileHandler(deps))
	handlers["/help"] = command("help", "Help", NewHelpHandler(deps))

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}

	sendAll := command("send_horoscopes", "Run the daily delivery now", NewSendHoroscopesHandler(deps))
	sendAll.Middleware = adminMiddleware
	sendAll.AdminOnly = true
	handlers["/send_horoscopes"] = sendAll

	dbStatus := command("dbstatus", "Database status", NewDBStatusHandler(deps))
	dbStatus.Middleware = adminMiddleware
	dbStatus.AdminOnly = true
	handlers["/dbstatus"] = dbStatus

	return handlers
}

package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/locale"
)

const dbStatusTimeout = 10 * time.Second

// NewSendHoroscopesHandler returns a handler for the admin /send_horoscopes
// command, which runs a full delivery pass immediately.
func NewSendHoroscopesHandler(deps HandlerDeps) bot.HandlerFunc {
	return sendHoroscopesHandler{deps}.Handle
}

type sendHoroscopesHandler struct {
	deps HandlerDeps
}

func (h sendHoroscopesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "send_horoscopes")

	msg, ok := incoming(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID
	lang := h.deps.language(ctx, chatID)

	log.InfoContext(ctx, "Admin requested delivery pass", "chat_id", chatID, "user_id", msg.From.ID)
	reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.DeliveryStarted, lang))

	h.deps.detach(func() {
		res, err := h.deps.Delivery.RunPass(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Manual delivery pass failed", "error", err)
			reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.ErrorTryAgain, lang))
			return
		}
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.DeliveryFinished, lang, res.Due, res.Sent, res.Failed))
	})
}

// NewDBStatusHandler returns a handler for the admin /dbstatus command.
func NewDBStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return dbStatusHandler{deps}.Handle
}

type dbStatusHandler struct {
	deps HandlerDeps
}

func (h dbStatusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "dbstatus")

	msg, ok := incoming(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID
	lang := h.deps.language(ctx, chatID)

	timeoutCtx, cancel := context.WithTimeout(ctx, dbStatusTimeout)
	defer cancel()

	if err := h.deps.Store.Ping(timeoutCtx); err != nil {
		log.ErrorContext(ctx, "Database ping failed", "error", err)
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.ErrorTryAgain, lang))
		return
	}

	stats, err := h.deps.Store.GetStats(timeoutCtx, h.deps.Delivery.Today())
	if err != nil {
		log.ErrorContext(ctx, "Failed to read database stats", "error", err)
		reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.ErrorTryAgain, lang))
		return
	}

	reply(ctx, b, log, chatID, h.deps.Texts.Text(locale.DBStatus, lang, stats.Total, stats.Active, stats.DeliveredToday))
}

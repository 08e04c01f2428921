// Package main contains the entrypoint for the horoscope bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/astrobot/horoscopebot/internal/bot"
	"github.com/astrobot/horoscopebot/internal/bot/handlers"
	"github.com/astrobot/horoscopebot/internal/bot/tasks"
	"github.com/astrobot/horoscopebot/internal/config"
	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/delivery"
	"github.com/astrobot/horoscopebot/internal/llm"
	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/logger"
	"github.com/astrobot/horoscopebot/internal/ratelimit"
	"github.com/astrobot/horoscopebot/internal/registration"
	"github.com/astrobot/horoscopebot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	hour, minute, err := cfg.Delivery.Clock()
	if err != nil {
		log.Error("Invalid delivery time", "error", err)
		return 1
	}
	loc, err := cfg.Delivery.Location()
	if err != nil {
		log.Error("Invalid delivery timezone", "error", err)
		return 1
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	llmClient, err := llm.NewClient(ctx, cfg.LLM, log)
	if err != nil {
		log.Error("Failed to initialize LLM client", "provider", cfg.LLM.Provider, "error", err)
		return 1
	}

	texts := locale.NewTable(locale.Language(cfg.Registration.DefaultLanguage))
	limiter := ratelimit.New(time.Duration(cfg.Registration.RateLimitSeconds)*time.Second, nil)
	conversation := registration.NewConversation(store, limiter, texts, log)

	var inFlight sync.WaitGroup

	// Delivery is filled in once the bot exists; the default handler reads hDeps late.
	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		Conversation: conversation,
		Limiter:      limiter,
		Texts:        texts,
		InFlight:     &inFlight,
	}

	botOpts := append(handlers.DispatchOptions(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		handlers.NewTextHandler(hDeps)(ctx, b, update)
	}), tgbot.WithMiddlewares(logger.Middleware(log)))
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	deliverySvc := delivery.NewService(store, llmClient, telegram.NewSender(tg), texts, delivery.Settings{
		Hour:             hour,
		Minute:           minute,
		Location:         loc,
		BatchSize:        cfg.Delivery.BatchSize,
		BatchPause:       cfg.Delivery.BatchPause,
		FallbackInterval: cfg.Delivery.FallbackInterval,
	}, log)
	hDeps.Delivery = deliverySvc

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, log, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	tDeps := tasks.TaskDeps{
		Logger:  log,
		Store:   store,
		Limiter: limiter,
		Config:  cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, loc, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	var loop bot.DeliveryLoop
	if cfg.Delivery.Enabled {
		loop = deliverySvc
	}
	app := bot.NewBot(log, tg, loop, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")
	inFlight.Wait()

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

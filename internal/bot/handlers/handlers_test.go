package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrobot/horoscopebot/internal/config"
	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/delivery"
	"github.com/astrobot/horoscopebot/internal/llm"
	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/ratelimit"
	"github.com/astrobot/horoscopebot/internal/registration"
)

const adminID = 900

type apiCall struct {
	method string
	chatID int64
	text   string
}

// fakeAPI stands in for the Telegram Bot API and records every call.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func formValue(r *http.Request, key string) string {
	v := r.FormValue(key)
	if strings.HasPrefix(v, `"`) {
		var s string
		if err := json.Unmarshal([]byte(v), &s); err == nil {
			return s
		}
	}
	return v
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)
	method := path.Base(r.URL.Path)
	chatID, _ := strconv.ParseInt(formValue(r, "chat_id"), 10, 64)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, chatID: chatID, text: formValue(r, "text")})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage":
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":%d,"type":"private"}}}`, chatID)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

// sent returns the texts of sendMessage calls to chatID.
func (f *fakeAPI) sent(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.method == "sendMessage" && c.chatID == chatID {
			out = append(out, c.text)
		}
	}
	return out
}

func (f *fakeAPI) last(t *testing.T, chatID int64) string {
	t.Helper()
	texts := f.sent(chatID)
	require.NotEmpty(t, texts, "no message sent to chat %d", chatID)
	return texts[len(texts)-1]
}

type stubLLM struct {
	err error
}

func (s stubLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "A calm day for " + req.Zodiac, nil
}

type botSender struct{ b *tgbot.Bot }

func (s botSender) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text})
	return err
}

type env struct {
	api   *fakeAPI
	url   string
	bot   *tgbot.Bot
	deps  HandlerDeps
	store database.Store
	texts *locale.Table
	cmds  map[string]RegisteredHandler
}

func newEnv(t *testing.T, window time.Duration, client llm.Client) *env {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := tgbot.New("123:test", tgbot.WithSkipGetMe(), tgbot.WithServerURL(srv.URL))
	require.NoError(t, err)

	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, log)
	texts := locale.NewTable(locale.LT)
	limiter := ratelimit.New(window, nil)

	cfg := &config.Config{Telegram: config.TelegramConfig{Token: "123:test", AdminIDs: []int64{adminID}}}
	svc := delivery.NewService(store, client, botSender{b}, texts,
		delivery.Settings{Location: time.UTC, BatchSize: 5}, log)

	deps := HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		Conversation: registration.NewConversation(store, limiter, texts, log),
		Delivery:     svc,
		Limiter:      limiter,
		Texts:        texts,
		InFlight:     &sync.WaitGroup{},
	}
	return &env{api: api, url: srv.URL, bot: b, deps: deps, store: store, texts: texts, cmds: RegisterAllCommands(deps)}
}

func message(chatID, userID int64, text string) *models.Update {
	msg := &models.Message{
		ID:   1,
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []models.MessageEntity{{
			Type:   models.MessageEntityTypeBotCommand,
			Length: len(strings.Fields(text)[0]),
		}}
	}
	return &models.Update{ID: 1, Message: msg}
}

// run dispatches text through the registered command, with its middleware,
// or through the default text handler.
func (e *env) run(chatID, userID int64, text string) {
	update := message(chatID, userID, text)
	if strings.HasPrefix(text, "/") {
		name := strings.Fields(text)[0]
		if h, ok := e.cmds[name]; ok {
			handler := h.Handler
			for i := len(h.Middleware) - 1; i >= 0; i-- {
				handler = h.Middleware[i](handler)
			}
			handler(context.Background(), e.bot, update)
			e.deps.InFlight.Wait()
			return
		}
	}
	NewTextHandler(e.deps)(context.Background(), e.bot, update)
}

func (e *env) register(t *testing.T, chatID int64) {
	t.Helper()
	for _, text := range []string{"/start", "EN", "Jonas", "male", "1990-05-15", "engineer", "chess"} {
		e.run(chatID, chatID, text)
	}
	p, err := e.store.GetActiveProfile(context.Background(), chatID)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestRegistrationThroughHandlers(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	e.run(10, 10, "/start")
	assert.Equal(t, e.texts.Text(locale.QuestionLanguage, locale.LT), e.api.last(t, 10))

	e.run(10, 10, "en")
	assert.Contains(t, e.api.last(t, 10), e.texts.Text(locale.QuestionName, locale.EN))

	for _, text := range []string{"Jonas", "male", "15.05.1990", "engineer", "chess"} {
		e.run(10, 10, text)
	}
	assert.Equal(t, e.texts.Text(locale.RegistrationComplete, locale.EN, "Jonas"), e.api.last(t, 10))

	p, err := e.store.GetActiveProfile(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "1990-05-15", p.Birthdate)
	assert.Equal(t, locale.EN, p.Language)

	e.run(10, 10, "/start")
	assert.Equal(t, e.texts.Text(locale.AlreadyRegistered, locale.EN, "Jonas"), e.api.last(t, 10))
}

func TestTextWithoutConversation(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	e.run(11, 11, "hello")
	assert.Equal(t, e.texts.Text(locale.NoConversation, locale.LT), e.api.last(t, 11))

	e.run(11, 11, "/unknown")
	assert.Equal(t, e.texts.Text(locale.Help, locale.LT), e.api.last(t, 11))
}

func TestCancelAndReset(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	e.run(12, 12, "/cancel")
	assert.Equal(t, e.texts.Text(locale.NoConversation, locale.LT), e.api.last(t, 12))

	e.run(12, 12, "/start")
	e.run(12, 12, "/cancel")
	assert.Equal(t, e.texts.Text(locale.Cancelled, locale.LT), e.api.last(t, 12))

	e.register(t, 12)
	e.run(12, 12, "/reset")
	assert.Equal(t, e.texts.Text(locale.ResetDone, locale.EN), e.api.last(t, 12))

	p, err := e.store.GetActiveProfile(context.Background(), 12)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestHoroscopeCommand(t *testing.T) {
	t.Run("not registered", func(t *testing.T) {
		e := newEnv(t, 0, stubLLM{})
		e.run(20, 20, "/horoscope")
		assert.Equal(t, e.texts.Text(locale.NotRegistered, locale.LT), e.api.last(t, 20))
	})

	t.Run("registered", func(t *testing.T) {
		e := newEnv(t, 0, stubLLM{})
		e.register(t, 21)

		e.run(21, 21, "/horoscope")
		last := e.api.last(t, 21)
		assert.Contains(t, last, "Jonas, your horoscope for today")
		assert.Contains(t, last, "A calm day for Taurus")

		stats, err := e.store.GetStats(context.Background(), e.deps.Delivery.Today())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.DeliveredToday)
	})

	t.Run("generation failure", func(t *testing.T) {
		e := newEnv(t, 0, stubLLM{err: llm.ErrConnection})
		e.register(t, 22)

		e.run(22, 22, "/horoscope")
		assert.Equal(t, e.texts.Text(locale.HoroscopeFallback, locale.EN), e.api.last(t, 22))
	})

	t.Run("rate limited", func(t *testing.T) {
		e := newEnv(t, time.Hour, stubLLM{})
		e.run(23, 23, "/horoscope")
		e.run(23, 23, "/horoscope")
		assert.Equal(t, e.texts.Text(locale.RateLimited, locale.LT, 3600), e.api.last(t, 23))
	})
}

func TestProfileCommand(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	e.run(30, 30, "/profile")
	assert.Equal(t, e.texts.Text(locale.NotRegistered, locale.LT), e.api.last(t, 30))

	e.register(t, 30)
	e.run(30, 30, "/profile")
	card := e.api.last(t, 30)
	assert.Contains(t, card, "Name: Jonas")
	assert.Contains(t, card, "Zodiac sign: Taurus")
	assert.Contains(t, card, "Birth date: 1990-05-15")
	assert.Regexp(t, `Registered: \d{4}-\d{2}-\d{2}`, card)
}

func TestHelpUsesProfileLanguage(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	e.run(31, 31, "/help")
	assert.Equal(t, e.texts.Text(locale.Help, locale.LT), e.api.last(t, 31))

	e.register(t, 31)
	e.run(31, 31, "/help")
	assert.Equal(t, e.texts.Text(locale.Help, locale.EN), e.api.last(t, 31))
}

func TestAdminCommands(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})
	e.register(t, 40)
	e.register(t, 41)

	e.run(50, 50, "/send_horoscopes")
	assert.Equal(t, []string{e.texts.Text(locale.NotAuthorized, locale.LT)}, e.api.sent(50))
	assert.Len(t, e.api.sent(40), 7, "only registration replies so far")

	e.run(adminID, adminID, "/send_horoscopes")
	assert.Equal(t, []string{
		e.texts.Text(locale.DeliveryStarted, locale.LT),
		e.texts.Text(locale.DeliveryFinished, locale.LT, 2, 2, 0),
	}, e.api.sent(adminID))
	assert.Contains(t, e.api.last(t, 40), "A calm day for Taurus")
	assert.Contains(t, e.api.last(t, 41), "A calm day for Taurus")

	e.run(adminID, adminID, "/dbstatus")
	assert.Equal(t, e.texts.Text(locale.DBStatus, locale.LT, 2, 2, 2), e.api.last(t, adminID))

	e.run(50, 50, "/dbstatus")
	assert.Len(t, e.api.sent(50), 2)
}

func TestRegisterAllCommands(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})

	for _, name := range []string{"/start", "/cancel", "/reset", "/horoscope", "/profile", "/help", "/send_horoscopes", "/dbstatus"} {
		h, ok := e.cmds[name]
		require.True(t, ok, name)
		assert.Equal(t, strings.TrimPrefix(name, "/"), h.Pattern)
		assert.NotNil(t, h.Handler)
		assert.Equal(t, tgbot.MatchTypeCommandStartOnly, h.MatchType)
	}
	assert.True(t, e.cmds["/dbstatus"].AdminOnly)
	assert.Len(t, e.cmds["/send_horoscopes"].Middleware, 1)
	assert.False(t, e.cmds["/horoscope"].AdminOnly)
}

// dispatcher builds a bot that routes updates the way the running bot does.
func (e *env) dispatcher(t *testing.T) *tgbot.Bot {
	t.Helper()
	opts := append(DispatchOptions(NewTextHandler(e.deps)), tgbot.WithSkipGetMe(), tgbot.WithServerURL(e.url))
	b, err := tgbot.New("123:test", opts...)
	require.NoError(t, err)
	for _, h := range e.cmds {
		handler := h.Handler
		for i := len(h.Middleware) - 1; i >= 0; i-- {
			handler = h.Middleware[i](handler)
		}
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, handler)
	}
	return b
}

func TestUpdatesFromOneChatKeepArrivalOrder(t *testing.T) {
	e := newEnv(t, 0, stubLLM{})
	b := e.dispatcher(t)
	ctx := context.Background()

	for _, text := range []string{"/start", "EN", "Jonas", "male"} {
		b.ProcessUpdate(ctx, message(60, 60, text))
	}

	assert.Equal(t, registration.AskBirthdate, e.deps.Conversation.State(60))
	assert.Equal(t, []string{
		e.texts.Text(locale.QuestionLanguage, locale.LT),
		e.texts.Text(locale.Welcome, locale.EN) + "\n\n" + e.texts.Text(locale.QuestionName, locale.EN),
		e.texts.Text(locale.Great, locale.EN) + "\n\n" + e.texts.Text(locale.QuestionSex, locale.EN),
		e.texts.Text(locale.Great, locale.EN) + "\n\n" + e.texts.Text(locale.QuestionBirthdate, locale.EN),
	}, e.api.sent(60))
}

func TestSlowCommandDoesNotBlockLaterUpdates(t *testing.T) {
	release := make(chan struct{})
	e := newEnv(t, 0, blockingLLM{release: release})
	e.register(t, 61)
	b := e.dispatcher(t)
	ctx := context.Background()

	b.ProcessUpdate(ctx, message(61, 61, "/horoscope"))
	b.ProcessUpdate(ctx, message(62, 62, "/start"))
	assert.Equal(t, registration.AskLanguage, e.deps.Conversation.State(62))

	close(release)
	e.deps.InFlight.Wait()
	assert.Contains(t, e.api.last(t, 61), "A calm day for Taurus")
}

type blockingLLM struct {
	release chan struct{}
}

func (s blockingLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	select {
	case <-s.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "A calm day for " + req.Zodiac, nil
}

// Package registration implements the linear registration conversation that
// collects a profile one answer at a time.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/ratelimit"
)

// ErrIncomplete is reported when a conversation reaches Complete with a
// missing field. The linear flow should make it unreachable.
var ErrIncomplete = errors.New("registration record is incomplete")

// ProfileStore is the part of the profile store the conversation uses.
type ProfileStore interface {
	GetActiveProfile(ctx context.Context, chatID int64) (*database.Profile, error)
	SaveProfile(ctx context.Context, profile *database.Profile) error
	DeleteProfile(ctx context.Context, chatID int64) (bool, error)
}

// Reply is what the caller should send back, and the state the chat is in
// afterwards.
type Reply struct {
	Text  string
	State State
}

// session is the working record of one chat.
type session struct {
	state  State
	lang   locale.Language
	values [Complete]string
}

// Conversation drives registrations for every chat.
// Turns of the same chat are serialized; different chats run in parallel.
type Conversation struct {
	store   ProfileStore
	limiter *ratelimit.Limiter
	texts   *locale.Table
	logger  *slog.Logger
	now     func() time.Time

	locks chatLocks

	mu       sync.Mutex
	sessions map[int64]*session
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithClock overrides time.Now, used for birthdate validation.
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) { c.now = now }
}

// NewConversation wires a Conversation to its collaborators.
func NewConversation(store ProfileStore, limiter *ratelimit.Limiter, texts *locale.Table, logger *slog.Logger, opts ...Option) *Conversation {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Conversation{
		store:    store,
		limiter:  limiter,
		texts:    texts,
		logger:   logger.With("component", "registration"),
		now:      time.Now,
		sessions: make(map[int64]*session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a registration, or reports the existing one.
func (c *Conversation) Start(ctx context.Context, chatID int64) Reply {
	unlock := c.locks.lock(chatID)
	defer unlock()

	log := c.logger.With("chat_id", chatID)
	current := c.session(chatID)

	if !c.limiter.Allow(chatID) {
		log.DebugContext(ctx, "Start rate limited")
		return Reply{Text: c.RateLimitedText(langOf(current, c.texts.Fallback())), State: stateOf(current)}
	}

	profile, err := c.store.GetActiveProfile(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up profile on start", "error", err)
		return Reply{Text: c.texts.Text(locale.ErrorTryAgain, langOf(current, c.texts.Fallback())), State: stateOf(current)}
	}
	if profile != nil {
		c.dropSession(chatID)
		log.InfoContext(ctx, "Start for already registered chat")
		return Reply{Text: c.texts.Text(locale.AlreadyRegistered, profile.Language, profile.Name), State: Idle}
	}

	s := &session{state: AskLanguage, lang: c.texts.Fallback()}
	c.putSession(chatID, s)

	log.InfoContext(ctx, "Registration started")
	return Reply{Text: c.texts.Text(fields[AskLanguage].question, s.lang), State: AskLanguage}
}

// Answer feeds one message into the chat's open registration. It returns
// false when the chat has no registration in progress.
func (c *Conversation) Answer(ctx context.Context, chatID int64, text string) (Reply, bool) {
	unlock := c.locks.lock(chatID)
	defer unlock()

	s := c.session(chatID)
	if s == nil {
		return Reply{State: Idle}, false
	}

	log := c.logger.With("chat_id", chatID, "state", s.state.String())

	if !c.limiter.Allow(chatID) {
		log.DebugContext(ctx, "Answer rate limited")
		return Reply{
			Text:  c.RateLimitedText(s.lang) + "\n\n" + c.texts.Text(fields[s.state].question, s.lang),
			State: s.state,
		}, true
	}

	f := fields[s.state]
	value, ok := f.normalize(text, s.lang, c.now())
	if !ok {
		log.DebugContext(ctx, "Answer rejected", "field", f.name)
		return Reply{Text: c.texts.Text(f.invalid, s.lang), State: s.state}, true
	}

	s.values[s.state] = value
	answered := s.state
	s.state++

	if answered == AskLanguage {
		s.lang = locale.Language(value)
		log.DebugContext(ctx, "Language selected", "language", value)
		return Reply{
			Text:  c.texts.Text(locale.Welcome, s.lang) + "\n\n" + c.texts.Text(fields[s.state].question, s.lang),
			State: s.state,
		}, true
	}

	if s.state < Complete {
		return Reply{
			Text:  c.texts.Text(locale.Great, s.lang) + "\n\n" + c.texts.Text(fields[s.state].question, s.lang),
			State: s.state,
		}, true
	}

	return c.complete(ctx, chatID, s), true
}

// complete persists the working record and closes the session whatever the outcome.
func (c *Conversation) complete(ctx context.Context, chatID int64, s *session) Reply {
	c.dropSession(chatID)
	log := c.logger.With("chat_id", chatID)

	profile, err := s.profile(chatID)
	if err != nil {
		log.ErrorContext(ctx, "Refusing to save registration", "error", err)
		return Reply{Text: c.texts.Text(locale.SaveFailed, s.lang), State: Idle}
	}

	if err := c.store.SaveProfile(ctx, profile); err != nil {
		log.ErrorContext(ctx, "Failed to save registration", "error", err)
		return Reply{Text: c.texts.Text(locale.SaveFailed, s.lang), State: Idle}
	}

	log.InfoContext(ctx, "Registration complete", "language", profile.Language)
	return Reply{Text: c.texts.Text(locale.RegistrationComplete, s.lang, profile.Name), State: Complete}
}

// Cancel abandons an open registration without touching the store.
func (c *Conversation) Cancel(ctx context.Context, chatID int64) Reply {
	unlock := c.locks.lock(chatID)
	defer unlock()

	s := c.session(chatID)
	if s == nil {
		return Reply{Text: c.texts.Text(locale.NoConversation, c.texts.Fallback()), State: Idle}
	}

	c.dropSession(chatID)
	c.logger.InfoContext(ctx, "Registration cancelled", "chat_id", chatID, "state", s.state.String())
	return Reply{Text: c.texts.Text(locale.Cancelled, s.lang), State: Idle}
}

// Reset deletes the stored profile and forgets everything about the chat.
func (c *Conversation) Reset(ctx context.Context, chatID int64) Reply {
	unlock := c.locks.lock(chatID)
	defer unlock()

	log := c.logger.With("chat_id", chatID)

	lang := langOf(c.session(chatID), c.texts.Fallback())
	if profile, err := c.store.GetActiveProfile(ctx, chatID); err == nil && profile != nil {
		lang = profile.Language
	}

	c.dropSession(chatID)
	c.limiter.Reset(chatID)

	if _, err := c.store.DeleteProfile(ctx, chatID); err != nil {
		log.ErrorContext(ctx, "Failed to delete profile on reset", "error", err)
		return Reply{Text: c.texts.Text(locale.ErrorTryAgain, lang), State: Idle}
	}

	log.InfoContext(ctx, "Chat reset")
	return Reply{Text: c.texts.Text(locale.ResetDone, lang), State: Idle}
}

// State reports where the chat's registration currently is.
func (c *Conversation) State(chatID int64) State {
	return stateOf(c.session(chatID))
}

// Language returns the chat's conversation language, or the fallback when
// no registration is open.
func (c *Conversation) Language(chatID int64) locale.Language {
	return langOf(c.session(chatID), c.texts.Fallback())
}

// RateLimitedText is the localized wait notice for the configured window.
func (c *Conversation) RateLimitedText(lang locale.Language) string {
	seconds := int(math.Ceil(c.limiter.Window().Seconds()))
	return c.texts.Text(locale.RateLimited, lang, seconds)
}

func (c *Conversation) session(chatID int64) *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[chatID]
}

func (c *Conversation) putSession(chatID int64, s *session) {
	c.mu.Lock()
	c.sessions[chatID] = s
	c.mu.Unlock()
}

func (c *Conversation) dropSession(chatID int64) {
	c.mu.Lock()
	delete(c.sessions, chatID)
	c.mu.Unlock()
}

func (s *session) profile(chatID int64) (*database.Profile, error) {
	for st := AskLanguage; st < Complete; st++ {
		if s.values[st] == "" {
			return nil, fmt.Errorf("%w: %s missing", ErrIncomplete, fields[st].name)
		}
	}
	return &database.Profile{
		ChatID:     chatID,
		Language:   locale.Language(s.values[AskLanguage]),
		Name:       s.values[AskName],
		Sex:        s.values[AskSex],
		Birthdate:  s.values[AskBirthdate],
		Profession: s.values[AskProfession],
		Hobbies:    s.values[AskHobbies],
		IsActive:   true,
	}, nil
}

func stateOf(s *session) State {
	if s == nil {
		return Idle
	}
	return s.state
}

func langOf(s *session, fallback locale.Language) locale.Language {
	if s == nil {
		return fallback
	}
	return s.lang
}

// chatLocks hands out one mutex per chat. Entries are reference counted so
// idle chats do not accumulate.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*chatLock
}

type chatLock struct {
	mu      sync.Mutex
	waiters int
}

func (l *chatLocks) lock(chatID int64) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*chatLock)
	}
	cl, ok := l.locks[chatID]
	if !ok {
		cl = &chatLock{}
		l.locks[chatID] = cl
	}
	cl.waiters++
	l.mu.Unlock()

	cl.mu.Lock()

	return func() {
		cl.mu.Unlock()

		l.mu.Lock()
		cl.waiters--
		if cl.waiters == 0 {
			delete(l.locks, chatID)
		}
		l.mu.Unlock()
	}
}

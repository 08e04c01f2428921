// Package delivery sends the daily personalized horoscope to every
// registered chat and serves on-demand requests.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/llm"
	"github.com/astrobot/horoscopebot/internal/locale"
	"github.com/astrobot/horoscopebot/internal/zodiac"
)

// Sender delivers a plain text message to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// ProfileStore is the part of the profile store delivery needs.
type ProfileStore interface {
	GetActiveProfile(ctx context.Context, chatID int64) (*database.Profile, error)
	GetProfilesDue(ctx context.Context, day string) ([]*database.Profile, error)
	MarkDelivered(ctx context.Context, chatID int64, day string) error
}

// PassResult summarizes one delivery pass.
type PassResult struct {
	Due    int
	Sent   int
	Failed int
}

// Settings controls the schedule and pacing of delivery.
type Settings struct {
	Hour             int
	Minute           int
	Location         *time.Location
	BatchSize        int
	BatchPause       time.Duration
	FallbackInterval time.Duration
}

// Service runs delivery passes against the store, the LLM and the chat.
type Service struct {
	store    ProfileStore
	llm      llm.Client
	sender   Sender
	texts    *locale.Table
	log      *slog.Logger
	settings Settings
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a delivery Service.
func NewService(store ProfileStore, client llm.Client, sender Sender, texts *locale.Table, settings Settings, log *slog.Logger, opts ...Option) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.BatchSize < 1 {
		settings.BatchSize = 1
	}
	s := &Service{
		store:    store,
		llm:      client,
		sender:   sender,
		texts:    texts,
		log:      log.With("component", "delivery"),
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current day in the reference time zone as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.now().In(s.settings.Location).Format(time.DateOnly)
}

// RunPass delivers to every active profile not yet served today. Profiles are
// processed in batches of BatchSize with BatchPause between batches. A failed
// profile is logged and counted but does not stop the pass.
func (s *Service) RunPass(ctx context.Context) (PassResult, error) {
	day := s.Today()
	due, err := s.store.GetProfilesDue(ctx, day)
	if err != nil {
		return PassResult{}, fmt.Errorf("failed to list due profiles: %w", err)
	}

	res := PassResult{Due: len(due)}
	if len(due) == 0 {
		s.log.InfoContext(ctx, "No profiles due for delivery", "day", day)
		return res, nil
	}
	s.log.InfoContext(ctx, "Starting delivery pass", "day", day, "due", len(due), "batch_size", s.settings.BatchSize)

	var sent, failed atomic.Int64
	for start := 0; start < len(due); start += s.settings.BatchSize {
		if start > 0 && s.settings.BatchPause > 0 {
			if err := sleep(ctx, s.settings.BatchPause); err != nil {
				res.Sent, res.Failed = int(sent.Load()), int(failed.Load())
				return res, err
			}
		}

		end := min(start+s.settings.BatchSize, len(due))
		var g errgroup.Group
		g.SetLimit(s.settings.BatchSize)
		for _, p := range due[start:end] {
			g.Go(func() error {
				if err := s.deliverOne(ctx, p, day); err != nil {
					failed.Add(1)
					s.log.ErrorContext(ctx, "Delivery failed", "chat_id", p.ChatID, "error", err)
					return nil
				}
				sent.Add(1)
				return nil
			})
		}
		_ = g.Wait()
	}

	res.Sent, res.Failed = int(sent.Load()), int(failed.Load())
	s.log.InfoContext(ctx, "Delivery pass finished", "day", day, "due", res.Due, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// deliverOne runs generate, send and stamp for one profile.
func (s *Service) deliverOne(ctx context.Context, p *database.Profile, day string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during delivery: %v", r)
		}
	}()

	text, err := s.llm.Generate(ctx, s.request(p, day))
	if err != nil {
		return fmt.Errorf("failed to generate horoscope: %w", err)
	}
	if err := s.sender.SendText(ctx, p.ChatID, s.texts.Text(locale.HoroscopeHeader, p.Language, p.Name, text)); err != nil {
		return fmt.Errorf("failed to send horoscope: %w", err)
	}
	if err := s.store.MarkDelivered(ctx, p.ChatID, day); err != nil {
		// The message is out; a later pass may send it again.
		s.log.ErrorContext(ctx, "Failed to stamp delivery", "chat_id", p.ChatID, "day", day, "error", err)
	}
	return nil
}

// DeliverNow generates and sends a horoscope to one chat regardless of
// whether it was already served today. A progress notice precedes the
// generation. A generation failure sends the localized fallback text and
// leaves the stamp untouched.
func (s *Service) DeliverNow(ctx context.Context, chatID int64) error {
	log := s.log.With("chat_id", chatID)

	p, err := s.store.GetActiveProfile(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load profile", "error", err)
		return errors.Join(err, s.sender.SendText(ctx, chatID, s.texts.Text(locale.ErrorTryAgain, s.texts.Fallback())))
	}
	if p == nil {
		return s.sender.SendText(ctx, chatID, s.texts.Text(locale.NotRegistered, s.texts.Fallback()))
	}

	if err := s.sender.SendText(ctx, chatID, s.texts.Text(locale.Generating, p.Language)); err != nil {
		log.WarnContext(ctx, "Failed to send progress notice", "error", err)
	}

	day := s.Today()
	text, err := s.llm.Generate(ctx, s.request(p, day))
	if err != nil {
		log.WarnContext(ctx, "On-demand generation failed, sending fallback", "error", err)
		return s.sender.SendText(ctx, chatID, s.texts.Text(locale.HoroscopeFallback, p.Language))
	}

	if err := s.sender.SendText(ctx, chatID, s.texts.Text(locale.HoroscopeHeader, p.Language, p.Name, text)); err != nil {
		return fmt.Errorf("failed to send horoscope: %w", err)
	}
	if err := s.store.MarkDelivered(ctx, chatID, day); err != nil {
		log.ErrorContext(ctx, "Failed to stamp delivery", "day", day, "error", err)
	}
	return nil
}

func (s *Service) request(p *database.Profile, day string) llm.Request {
	req := llm.Request{
		Language:   p.Language,
		Name:       p.Name,
		Sex:        p.Sex,
		Birthdate:  p.Birthdate,
		Profession: p.Profession,
		Hobbies:    p.Hobbies,
		Date:       day,
	}
	if sign, err := zodiac.SignForDate(p.Birthdate); err == nil {
		req.Zodiac = sign.Name(p.Language)
	} else {
		s.log.Warn("Cannot derive zodiac sign", "chat_id", p.ChatID, "birthdate", p.Birthdate, "error", err)
	}
	return req
}

// NextRun returns the first instant strictly after now whose wall clock in
// loc reads hour:minute.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Loop sleeps until the next delivery time, runs a pass and repeats until
// ctx is cancelled. A pass that fails or panics is followed by
// FallbackInterval before the schedule is recomputed.
func (s *Service) Loop(ctx context.Context) error {
	s.log.InfoContext(ctx, "Delivery loop started",
		"time", fmt.Sprintf("%02d:%02d", s.settings.Hour, s.settings.Minute),
		"timezone", s.settings.Location.String())

	for {
		now := s.now()
		next := NextRun(now, s.settings.Hour, s.settings.Minute, s.settings.Location)
		s.log.InfoContext(ctx, "Next delivery scheduled", "at", next, "in", next.Sub(now).Round(time.Second))

		if err := sleep(ctx, next.Sub(now)); err != nil {
			s.log.InfoContext(ctx, "Delivery loop stopped")
			return nil
		}

		if _, err := s.safePass(ctx); err != nil {
			if ctx.Err() != nil {
				s.log.InfoContext(ctx, "Delivery loop stopped")
				return nil
			}
			s.log.ErrorContext(ctx, "Delivery pass failed, retrying later", "error", err, "retry_in", s.settings.FallbackInterval)
			if err := sleep(ctx, s.settings.FallbackInterval); err != nil {
				s.log.InfoContext(ctx, "Delivery loop stopped")
				return nil
			}
		}
	}
}

func (s *Service) safePass(ctx context.Context) (res PassResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "Delivery pass panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("delivery pass panicked: %v", r)
		}
	}()
	return s.RunPass(ctx)
}

// sleep waits for d or until ctx is done, returning ctx.Err() in that case.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package delivery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrobot/horoscopebot/internal/database"
	"github.com/astrobot/horoscopebot/internal/llm"
	"github.com/astrobot/horoscopebot/internal/locale"
)

var vilnius = mustLocation("Europe/Vilnius")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type memStore struct {
	mu       sync.Mutex
	profiles map[int64]*database.Profile
	listErr  error
	stamps   int
}

func newMemStore(profiles ...*database.Profile) *memStore {
	m := &memStore{profiles: make(map[int64]*database.Profile)}
	for _, p := range profiles {
		m.profiles[p.ChatID] = p
	}
	return m
}

func (m *memStore) GetActiveProfile(_ context.Context, chatID int64) (*database.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[chatID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetProfilesDue(_ context.Context, day string) ([]*database.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var due []*database.Profile
	for _, p := range m.profiles {
		if !p.DeliveredOn(day) {
			cp := *p
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ChatID < due[j].ChatID })
	return due, nil
}

func (m *memStore) MarkDelivered(_ context.Context, chatID int64, day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamps++
	if p, ok := m.profiles[chatID]; ok {
		p.LastDeliveryDate = sql.NullString{String: day, Valid: true}
	}
	return nil
}

func (m *memStore) stamp(chatID int64) sql.NullString {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[chatID].LastDeliveryDate
}

type fakeLLM struct {
	mu       sync.Mutex
	requests []llm.Request
	failFor  map[int64]bool
	names    map[string]int64
	panicFor string
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if req.Name == f.panicFor && f.panicFor != "" {
		panic("boom")
	}
	if f.failFor[f.names[req.Name]] {
		return "", fmt.Errorf("%w: test", llm.ErrConnection)
	}
	return "Stars for " + req.Name, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendText(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID, text})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func profile(chatID int64, name string, lang locale.Language) *database.Profile {
	return &database.Profile{
		ChatID:     chatID,
		Name:       name,
		Birthdate:  "1990-05-15",
		Language:   lang,
		Profession: "engineer",
		Hobbies:    "chess",
		Sex:        "male",
		IsActive:   true,
	}
}

type harness struct {
	svc    *Service
	store  *memStore
	llm    *fakeLLM
	sender *fakeSender
}

func newHarness(t *testing.T, now time.Time, settings Settings, profiles ...*database.Profile) *harness {
	t.Helper()
	h := &harness{
		store:  newMemStore(profiles...),
		llm:    &fakeLLM{failFor: map[int64]bool{}, names: map[string]int64{}},
		sender: &fakeSender{},
	}
	for _, p := range profiles {
		h.llm.names[p.Name] = p.ChatID
	}
	if settings.Location == nil {
		settings.Location = vilnius
	}
	h.svc = NewService(h.store, h.llm, h.sender, locale.NewTable(locale.LT), settings, nil,
		WithClock(func() time.Time { return now }))
	return h
}

func TestRunPassDeliversOncePerDay(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	h := newHarness(t, now, Settings{BatchSize: 5},
		profile(1, "Jonas", locale.LT),
		profile(2, "Anna", locale.EN),
	)

	res, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 2, Sent: 2, Failed: 0}, res)

	msgs := h.sender.messages()
	require.Len(t, msgs, 2)
	texts := map[int64]string{}
	for _, m := range msgs {
		texts[m.chatID] = m.text
	}
	assert.Contains(t, texts[1], "Jonas, jūsų horoskopas šiandienai")
	assert.Contains(t, texts[1], "Stars for Jonas")
	assert.Contains(t, texts[2], "Anna, your horoscope for today")

	assert.Equal(t, "2025-03-01", h.store.stamp(1).String)
	assert.Equal(t, "2025-03-01", h.store.stamp(2).String)

	res, err = h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{}, res)
	assert.Len(t, h.sender.messages(), 2, "no second delivery on the same day")
}

func TestRunPassRequestCarriesZodiacAndDay(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC) // already 2 March in Vilnius
	h := newHarness(t, now, Settings{BatchSize: 5}, profile(1, "Jonas", locale.LT))

	_, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, h.llm.requests, 1)
	req := h.llm.requests[0]
	assert.Equal(t, "Jautis", req.Zodiac)
	assert.Equal(t, "2025-03-02", req.Date)
	assert.Equal(t, locale.LT, req.Language)
	assert.Equal(t, "1990-05-15", req.Birthdate)
	assert.Equal(t, "2025-03-02", h.store.stamp(1).String)
}

func TestRunPassFailureKeepsPreviousStamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	failing := profile(2, "Anna", locale.EN)
	failing.LastDeliveryDate = sql.NullString{String: "2025-02-28", Valid: true}
	h := newHarness(t, now, Settings{BatchSize: 5}, profile(1, "Jonas", locale.LT), failing)
	h.llm.failFor[2] = true

	res, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 2, Sent: 1, Failed: 1}, res)
	assert.Equal(t, "2025-02-28", h.store.stamp(2).String)

	for _, m := range h.sender.messages() {
		assert.NotEqual(t, int64(2), m.chatID, "nothing is sent when generation fails")
	}
}

func TestRunPassSendFailureLeavesNoStamp(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	h := newHarness(t, now, Settings{BatchSize: 5}, profile(1, "Jonas", locale.LT))
	h.sender.err = errors.New("chat blocked")

	res, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 1, Sent: 0, Failed: 1}, res)
	assert.False(t, h.store.stamp(1).Valid)
}

func TestRunPassRecoversProfilePanic(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	h := newHarness(t, now, Settings{BatchSize: 5}, profile(1, "Jonas", locale.LT), profile(2, "Anna", locale.EN))
	h.llm.panicFor = "Anna"

	res, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 2, Sent: 1, Failed: 1}, res)
}

func TestRunPassBatches(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	var profiles []*database.Profile
	for i := int64(1); i <= 7; i++ {
		profiles = append(profiles, profile(i, fmt.Sprintf("User%d", i), locale.EN))
	}
	h := newHarness(t, now, Settings{BatchSize: 3, BatchPause: 20 * time.Millisecond}, profiles...)

	start := time.Now()
	res, err := h.svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassResult{Due: 7, Sent: 7}, res)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond, "two pauses between three batches")
}

func TestRunPassCancelledDuringPause(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 30, 0, 0, vilnius)
	h := newHarness(t, now, Settings{BatchSize: 1, BatchPause: time.Hour},
		profile(1, "Jonas", locale.LT), profile(2, "Anna", locale.EN))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := h.svc.RunPass(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, PassResult{Due: 2, Sent: 1}, res)
}

func TestRunPassListError(t *testing.T) {
	h := newHarness(t, time.Now(), Settings{BatchSize: 5})
	h.store.listErr = errors.New("disk gone")

	_, err := h.svc.RunPass(context.Background())
	assert.ErrorContains(t, err, "disk gone")
}

func TestDeliverNow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, vilnius)

	t.Run("not registered", func(t *testing.T) {
		h := newHarness(t, now, Settings{BatchSize: 5})
		require.NoError(t, h.svc.DeliverNow(context.Background(), 42))
		msgs := h.sender.messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, locale.NewTable(locale.LT).Text(locale.NotRegistered, locale.LT), msgs[0].text)
	})

	t.Run("ignores daily uniqueness and stamps", func(t *testing.T) {
		p := profile(1, "Anna", locale.EN)
		p.LastDeliveryDate = sql.NullString{String: "2025-03-01", Valid: true}
		h := newHarness(t, now, Settings{BatchSize: 5}, p)

		require.NoError(t, h.svc.DeliverNow(context.Background(), 1))
		msgs := h.sender.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "🔮 Generating your personal horoscope...", msgs[0].text)
		assert.Contains(t, msgs[1].text, "Stars for Anna")
		assert.Equal(t, "2025-03-01", h.store.stamp(1).String)
		assert.Equal(t, 1, h.store.stamps)
	})

	t.Run("generation failure sends fallback without stamp", func(t *testing.T) {
		h := newHarness(t, now, Settings{BatchSize: 5}, profile(1, "Anna", locale.EN))
		h.llm.failFor[1] = true

		require.NoError(t, h.svc.DeliverNow(context.Background(), 1))
		msgs := h.sender.messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, "Sorry, couldn't generate your horoscope. Please try again later.", msgs[1].text)
		assert.False(t, h.store.stamp(1).Valid)
		assert.Zero(t, h.store.stamps)
	})
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "earlier the same day",
			now:  time.Date(2025, 6, 10, 6, 0, 0, 0, vilnius),
			want: time.Date(2025, 6, 10, 7, 30, 0, 0, vilnius),
		},
		{
			name: "exactly at the time moves to tomorrow",
			now:  time.Date(2025, 6, 10, 7, 30, 0, 0, vilnius),
			want: time.Date(2025, 6, 11, 7, 30, 0, 0, vilnius),
		},
		{
			name: "just past the time",
			now:  time.Date(2025, 6, 10, 7, 30, 1, 0, vilnius),
			want: time.Date(2025, 6, 11, 7, 30, 0, 0, vilnius),
		},
		{
			name: "now given in another zone",
			now:  time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC), // 02:00 on 11 June in Vilnius
			want: time.Date(2025, 6, 11, 7, 30, 0, 0, vilnius),
		},
		{
			name: "across spring daylight saving change",
			now:  time.Date(2025, 3, 29, 8, 0, 0, 0, vilnius),
			want: time.Date(2025, 3, 30, 7, 30, 0, 0, vilnius),
		},
		{
			name: "end of month",
			now:  time.Date(2025, 1, 31, 9, 0, 0, 0, vilnius),
			want: time.Date(2025, 2, 1, 7, 30, 0, 0, vilnius),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, 7, 30, vilnius)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			assert.True(t, got.After(tt.now))
		})
	}

	spring := NextRun(time.Date(2025, 3, 29, 8, 0, 0, 0, vilnius), 7, 30, vilnius)
	assert.Equal(t, 22*time.Hour+30*time.Minute, spring.Sub(time.Date(2025, 3, 29, 8, 0, 0, 0, vilnius)))
}

func TestLoopRunsPassAndStopsOnCancel(t *testing.T) {
	base := time.Date(2025, 3, 1, 7, 29, 59, int(950*time.Millisecond), vilnius)
	started := time.Now()
	clock := func() time.Time { return base.Add(time.Since(started)) }

	store := newMemStore(profile(1, "Jonas", locale.LT))
	sender := &fakeSender{}
	svc := NewService(store, &fakeLLM{}, sender, locale.NewTable(locale.LT),
		Settings{Hour: 7, Minute: 30, Location: vilnius, BatchSize: 5, FallbackInterval: time.Hour}, nil,
		WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Loop(ctx) }()

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "2025-03-01", store.stamp(1).String)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Len(t, sender.messages(), 1)
}

func TestLoopFailedPassWaitsFallback(t *testing.T) {
	base := time.Date(2025, 3, 1, 7, 29, 59, int(950*time.Millisecond), vilnius)
	started := time.Now()
	clock := func() time.Time { return base.Add(time.Since(started)) }

	store := newMemStore()
	store.listErr = errors.New("locked")
	svc := NewService(store, &fakeLLM{}, &fakeSender{}, locale.NewTable(locale.LT),
		Settings{Hour: 7, Minute: 30, Location: vilnius, BatchSize: 5, FallbackInterval: time.Hour}, nil,
		WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.NoError(t, svc.Loop(ctx))
}

func TestSafePassRecoversPanic(t *testing.T) {
	svc := NewService(panicStore{}, &fakeLLM{}, &fakeSender{}, locale.NewTable(locale.LT), Settings{}, nil)
	_, err := svc.safePass(context.Background())
	assert.ErrorContains(t, err, "panicked")
}

type panicStore struct{ ProfileStore }

func (panicStore) GetProfilesDue(context.Context, string) ([]*database.Profile, error) {
	panic("store exploded")
}

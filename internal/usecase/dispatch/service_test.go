package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hilal/internal/domain"
)

type staticSettings struct {
	settings domain.Settings
}

func (s staticSettings) Settings() domain.Settings { return s.settings }

type recorder struct {
	mu     sync.Mutex
	titles []string
	bodies []string
	voices []string
	events []domain.AdhanEvent
	err    error
	panics bool
}

func (r *recorder) Notify(_ context.Context, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panics {
		panic("notifier exploded")
	}
	r.titles = append(r.titles, title)
	r.bodies = append(r.bodies, body)
	return r.err
}

func (r *recorder) Play(_ context.Context, voice string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voices = append(r.voices, voice)
	return r.err
}

func (r *recorder) Publish(_ context.Context, event domain.AdhanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recorder) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies), len(r.voices), len(r.events)
}

type stubGuard struct {
	mu   sync.Mutex
	seen map[domain.FiredKey]bool
	err  error
}

func (g *stubGuard) Acquire(_ context.Context, key domain.FiredKey) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

func testEvent(p domain.Prayer) domain.AdhanEvent {
	at := time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)
	return domain.AdhanEvent{
		ID:          "evt-" + p.String(),
		Prayer:      p,
		Date:        domain.Date{Year: 2025, Month: time.March, Day: 1},
		ScheduledAt: at,
		FiredAt:     at,
		Cause:       domain.AdhanCauseCrossing,
	}
}

func englishSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.Location = time.UTC
	s.Language = domain.LanguageEnglish
	s.TimeFormat = domain.TimeFormat24h
	s.Muezzin = "mishary"
	return s
}

func waitAll(t *testing.T, svc *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestDispatchFansOut(t *testing.T) {
	rec := &recorder{}
	svc := NewService(zerolog.Nop(), staticSettings{englishSettings()}, Sinks{
		Notifiers:  []domain.Notifier{rec},
		Audio:      rec,
		Publishers: []domain.EventPublisher{rec},
	})
	svc.Dispatch(testEvent(domain.Asr))
	waitAll(t, svc)

	if rec.titles[0] != "Let's Pray" || rec.bodies[0] != "It's time for Asr prayer (15:30)" {
		t.Fatalf("unexpected notification %q / %q", rec.titles[0], rec.bodies[0])
	}
	if len(rec.voices) != 1 || rec.voices[0] != "mishary" {
		t.Fatalf("unexpected voices %v", rec.voices)
	}
	if len(rec.events) != 1 || rec.events[0].ID != "evt-asr" {
		t.Fatalf("unexpected events %+v", rec.events)
	}
}

func TestDispatchRespectsFlags(t *testing.T) {
	settings := englishSettings()
	settings.NotificationsEnabled = false
	settings.AudioEnabled = false
	rec := &recorder{}
	svc := NewService(zerolog.Nop(), staticSettings{settings}, Sinks{
		Notifiers:  []domain.Notifier{rec},
		Audio:      rec,
		Publishers: []domain.EventPublisher{rec},
	})
	svc.Dispatch(testEvent(domain.Isha))
	waitAll(t, svc)
	notified, played, published := rec.counts()
	if notified != 0 || played != 0 {
		t.Fatalf("disabled sinks were called: notify=%d audio=%d", notified, played)
	}
	if published != 1 {
		t.Fatalf("publishers are not gated, got %d", published)
	}
}

func TestDispatchSwallowsFailures(t *testing.T) {
	failing := &recorder{err: errors.New("sink down")}
	panicking := &recorder{panics: true}
	healthy := &recorder{}
	svc := NewService(zerolog.Nop(), staticSettings{englishSettings()}, Sinks{
		Notifiers:  []domain.Notifier{panicking, failing, healthy},
		Audio:      failing,
		Publishers: []domain.EventPublisher{failing, healthy},
	})
	svc.Dispatch(testEvent(domain.Fajr))
	svc.Dispatch(testEvent(domain.Dhuhr))
	waitAll(t, svc)

	notified, _, published := healthy.counts()
	if notified != 2 || published != 2 {
		t.Fatalf("healthy sinks must receive every event: notify=%d publish=%d", notified, published)
	}
}

func TestDispatchGuardSkipsRepeats(t *testing.T) {
	rec := &recorder{}
	guard := &stubGuard{seen: map[domain.FiredKey]bool{}}
	svc := NewService(zerolog.Nop(), staticSettings{englishSettings()}, Sinks{
		Notifiers: []domain.Notifier{rec},
		Guard:     guard,
	})
	svc.Dispatch(testEvent(domain.Maghrib))
	waitAll(t, svc)
	svc.Dispatch(testEvent(domain.Maghrib))
	waitAll(t, svc)
	if notified, _, _ := rec.counts(); notified != 1 {
		t.Fatalf("guard must suppress the repeat, got %d notifications", notified)
	}
}

func TestDispatchGuardErrorDoesNotBlock(t *testing.T) {
	rec := &recorder{}
	svc := NewService(zerolog.Nop(), staticSettings{englishSettings()}, Sinks{
		Notifiers: []domain.Notifier{rec},
		Guard:     &stubGuard{err: errors.New("redis down")},
	})
	svc.Dispatch(testEvent(domain.Dhuhr))
	waitAll(t, svc)
	if notified, _, _ := rec.counts(); notified != 1 {
		t.Fatalf("guard failure must not stop dispatch, got %d", notified)
	}
}

type blockingPlayer struct {
	release chan struct{}
}

func (b blockingPlayer) Play(ctx context.Context, _ string) error {
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	player := blockingPlayer{release: make(chan struct{})}
	svc := NewService(zerolog.Nop(), staticSettings{englishSettings()}, Sinks{Audio: player})

	returned := make(chan struct{})
	go func() {
		svc.Dispatch(testEvent(domain.Asr))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatalf("Dispatch blocked on a slow sink")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := svc.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait should time out while audio plays, got %v", err)
	}
	close(player.release)
	waitAll(t, svc)
}

func TestFormatNotificationArabic(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Location = time.UTC
	title, body := FormatNotification(testEvent(domain.Maghrib), settings)
	if title != "حي على الصلاة" {
		t.Fatalf("title = %q", title)
	}
	if !strings.Contains(body, "المغرب") || !strings.Contains(body, "3:30 PM") {
		t.Fatalf("body = %q", body)
	}
}

func TestFormatSchedule(t *testing.T) {
	settings := englishSettings()
	sched := domain.Schedule{Date: domain.Date{Year: 2025, Month: time.March, Day: 1}, Location: time.UTC}
	sched.Times[domain.Dhuhr] = domain.AvailableAt(time.Date(2025, 3, 1, 12, 29, 0, 0, time.UTC))
	text := FormatSchedule(sched, settings)
	if !strings.Contains(text, "Dhuhr: 12:29") || !strings.Contains(text, "Fajr: --:--") {
		t.Fatalf("unexpected schedule text:\n%s", text)
	}
	if first := strings.SplitN(text, "\n", 2)[0]; first != "Prayer times for 2025-03-01 (Ramadan 1, 1446 AH)" {
		t.Fatalf("unexpected header %q", first)
	}

	settings.Language = domain.LanguageArabic
	if first := strings.SplitN(FormatSchedule(sched, settings), "\n", 2)[0]; first != "مواقيت الصلاة 2025-03-01 (١ رمضان ١٤٤٦ هـ)" {
		t.Fatalf("unexpected arabic header %q", first)
	}
}

type namedSink struct{ recorder }

func (*namedSink) Name() string { return "telegram" }

func TestSinksNames(t *testing.T) {
	sinks := Sinks{
		Notifiers:  []domain.Notifier{&namedSink{}},
		Audio:      &recorder{},
		Publishers: []domain.EventPublisher{&recorder{}},
	}
	got := strings.Join(sinks.Names(), ",")
	want := "notify:telegram,audio:*dispatch.recorder,publish:*dispatch.recorder"
	if got != want {
		t.Fatalf("names = %q, want %q", got, want)
	}
}

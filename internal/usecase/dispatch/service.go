package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

const (
	defaultSinkTimeout  = 10 * time.Second
	defaultAudioTimeout = 10 * time.Minute
)

// SettingsSource отдаёт действующие настройки рассылки.
type SettingsSource interface {
	Settings() domain.Settings
}

// Sinks перечисляет приёмники событий. Пустые поля пропускаются.
type Sinks struct {
	Notifiers  []domain.Notifier
	Audio      domain.AudioPlayer
	Publishers []domain.EventPublisher
	// Guard защищает от повторной рассылки после перезапуска процесса.
	Guard domain.FiredStore
}

// Service раздаёт события планировщика по приёмникам, не блокируя вызывающего.
type Service struct {
	log          zerolog.Logger
	settings     SettingsSource
	sinks        Sinks
	sinkTimeout  time.Duration
	audioTimeout time.Duration
	wg           sync.WaitGroup
}

// NewService создаёт сервис рассылки.
func NewService(logger zerolog.Logger, settings SettingsSource, sinks Sinks) *Service {
	return &Service{
		log:          logger.With().Str("component", "dispatch").Logger(),
		settings:     settings,
		sinks:        sinks,
		sinkTimeout:  defaultSinkTimeout,
		audioTimeout: defaultAudioTimeout,
	}
}

// Dispatch обрабатывает событие в отдельной горутине и сразу возвращает управление.
func (s *Service) Dispatch(event domain.AdhanEvent) {
	s.spawn("event", func() { s.handle(event) })
}

// Wait ждёт завершения начатых рассылок или отмены контекста.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) handle(event domain.AdhanEvent) {
	logger := s.log.With().Str("prayer", event.Prayer.String()).Str("date", event.Date.String()).Str("event_id", event.ID).Logger()

	if s.sinks.Guard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.sinkTimeout)
		acquired, err := s.sinks.Guard.Acquire(ctx, event.Key())
		cancel()
		metrics.ObserveSink("guard", err)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("dispatch: отметка события недоступна, продолжаем")
		case !acquired:
			logger.Info().Msg("dispatch: событие уже разослано")
			return
		}
	}

	settings := s.settings.Settings()
	if settings.NotificationsEnabled {
		title, body := FormatNotification(event, settings)
		for _, n := range s.sinks.Notifiers {
			notifier := n
			s.call(logger, sinkName("notify", notifier), s.sinkTimeout, func(ctx context.Context) error {
				return notifier.Notify(ctx, title, body)
			})
		}
	}
	if settings.AudioEnabled && s.sinks.Audio != nil {
		voice := domain.MuezzinFor(settings.Muezzin).ID
		s.call(logger, sinkName("audio", s.sinks.Audio), s.audioTimeout, func(ctx context.Context) error {
			return s.sinks.Audio.Play(ctx, voice)
		})
	}
	for _, p := range s.sinks.Publishers {
		publisher := p
		s.call(logger, sinkName("publish", publisher), s.sinkTimeout, func(ctx context.Context) error {
			return publisher.Publish(ctx, event)
		})
	}
}

// call запускает приёмник в своей горутине с таймаутом; ошибка только логируется.
func (s *Service) call(logger zerolog.Logger, sink string, timeout time.Duration, fn func(ctx context.Context) error) {
	s.spawn(sink, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		err := fn(ctx)
		metrics.ObserveSink(sink, err)
		if err != nil {
			logger.Error().Err(err).Str("sink", sink).Msg("dispatch: ошибка приёмника")
			return
		}
		logger.Debug().Str("sink", sink).Dur("took", time.Since(start)).Msg("dispatch: доставлено")
	})
}

func (s *Service) spawn(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.ObserveSink(name, fmt.Errorf("panic: %v", r))
				s.log.Error().Interface("panic", r).Str("sink", name).Msg("dispatch: паника в приёмнике")
			}
		}()
		fn()
	}()
}

// Names перечисляет подключённые приёмники для журнала запуска.
func (s Sinks) Names() []string {
	names := make([]string, 0, len(s.Notifiers)+len(s.Publishers)+1)
	for _, n := range s.Notifiers {
		names = append(names, sinkName("notify", n))
	}
	if s.Audio != nil {
		names = append(names, sinkName("audio", s.Audio))
	}
	for _, p := range s.Publishers {
		names = append(names, sinkName("publish", p))
	}
	return names
}

type named interface {
	Name() string
}

func sinkName(kind string, sink any) string {
	if n, ok := sink.(named); ok {
		return kind + ":" + n.Name()
	}
	return fmt.Sprintf("%s:%T", kind, sink)
}

package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

const (
	// TickInterval задаёт период опроса часов.
	TickInterval = time.Second
	// ColdStartTolerance задаёт допуск срабатывания на первом тике после старта.
	ColdStartTolerance = 2 * time.Second
)

// Source отдаёт расписание текущего дня и произвольных дат.
type Source interface {
	Current(now time.Time) (domain.Schedule, error)
	ForDate(date domain.Date) (domain.Schedule, error)
}

// Scheduler сравнивает часы с расписанием и рассылает каждое событие не более одного раза.
// Состояние меняется только из горутины, вызывающей Tick.
type Scheduler struct {
	log        zerolog.Logger
	source     Source
	dispatcher domain.Dispatcher
	fired      *FiredRegistry
	now        func() time.Time
	newID      func() string

	previous time.Time
	schedule domain.Schedule
	// carry хранит расписание, которое заменил текущий день. Нужно для времён после полуночи.
	carry   domain.Schedule
	restart atomic.Bool
}

// NewScheduler создаёт планировщик.
func NewScheduler(logger zerolog.Logger, source Source, dispatcher domain.Dispatcher) *Scheduler {
	return &Scheduler{
		log:        logger.With().Str("component", "scheduler").Logger(),
		source:     source,
		dispatcher: dispatcher,
		fired:      NewFiredRegistry(DefaultFiredCapacity),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Restart сбрасывает момент предыдущего тика, включая проверку холодного старта.
// Безопасен для вызова из любой горутины: сброс применяется на ближайшем тике.
func (s *Scheduler) Restart() {
	s.restart.Store(true)
}

// Run вызывает Tick раз в секунду до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	s.log.Info().Msg("scheduler: запущен")
	if ctx.Err() == nil {
		s.Tick(s.now())
	}
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler: остановлен")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.Tick(s.now())
		}
	}
}

// Tick обрабатывает один отсчёт часов.
func (s *Scheduler) Tick(now time.Time) {
	if s.restart.CompareAndSwap(true, false) {
		s.previous = time.Time{}
		s.log.Info().Msg("scheduler: перезапуск, проверка холодного старта включена")
	}
	var gap time.Duration
	if !s.previous.IsZero() {
		gap = now.Sub(s.previous)
	}
	metrics.ObserveTick(gap)

	s.refresh(now)
	if !s.carry.Date.IsZero() {
		s.check(s.carry, now)
	}
	if !s.schedule.Date.IsZero() {
		s.check(s.schedule, now)
	}
	s.previous = now
}

func (s *Scheduler) refresh(now time.Time) {
	sched, err := s.source.Current(now)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: не удалось получить расписание")
		return
	}
	switch {
	case s.schedule.Date.IsZero():
		prev, err := s.source.ForDate(sched.Date.AddDays(-1))
		if err != nil {
			s.log.Warn().Err(err).Msg("scheduler: нет расписания за предыдущий день")
		} else {
			s.carry = prev
		}
	case s.schedule.Date != sched.Date:
		s.log.Info().Str("from", s.schedule.Date.String()).Str("to", sched.Date.String()).Msg("scheduler: смена даты")
		s.carry = s.schedule
	}
	s.schedule = sched
}

func (s *Scheduler) check(sched domain.Schedule, now time.Time) {
	for _, p := range domain.AdhanPrayers {
		key := domain.FiredKey{Date: sched.Date, Prayer: p}
		if s.fired.Contains(key) {
			continue
		}
		at, ok := sched.Time(p)
		if !ok {
			continue
		}
		cause, due := s.due(at, now)
		if !due {
			continue
		}
		if s.fired.Insert(key) {
			s.log.Debug().Msg("scheduler: реестр событий очищен")
		}
		event := domain.AdhanEvent{
			ID:          s.newID(),
			Prayer:      p,
			Date:        sched.Date,
			ScheduledAt: at,
			FiredAt:     now,
			Cause:       cause,
		}
		metrics.IncFired(p.String(), string(cause))
		s.log.Info().
			Str("prayer", p.String()).
			Str("date", sched.Date.String()).
			Time("scheduled_at", at).
			Str("cause", string(cause)).
			Msg("scheduler: время намаза")
		s.dispatcher.Dispatch(event)
	}
}

// due проверяет попадание времени в интервал (previous, now], а без предыдущего тика сравнивает с допуском.
func (s *Scheduler) due(at, now time.Time) (domain.AdhanCause, bool) {
	if s.previous.IsZero() {
		diff := now.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		return domain.AdhanCauseColdStart, diff <= ColdStartTolerance
	}
	return domain.AdhanCauseCrossing, s.previous.Before(at) && !at.After(now)
}

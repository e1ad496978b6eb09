package schedule

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
	"hilal/internal/usecase/calc"
)

const daysCacheSize = 512

// ErrNoUpcoming возвращается, если ни сегодня, ни завтра нет доступных времён.
var ErrNoUpcoming = errors.New("no upcoming prayer")

// Calculator строит расписание на дату по настройкам.
type Calculator func(date domain.Date, s domain.Settings) (domain.Schedule, error)

// Snapshot хранит опубликованное неизменяемое состояние кэша.
type Snapshot struct {
	Schedule   domain.Schedule
	Key        domain.CalculationKey
	ComputedAt time.Time
}

// Service хранит расписание текущего дня и пересчитывает его при смене даты или настроек.
type Service struct {
	log      zerolog.Logger
	calc     Calculator
	settings atomic.Pointer[domain.Settings]
	current  atomic.Pointer[Snapshot]
	days     *otter.Cache[string, domain.Schedule]
}

// NewService создаёт сервис с проверенными настройками.
func NewService(logger zerolog.Logger, settings domain.Settings) (*Service, error) {
	s := &Service{
		log:  logger.With().Str("component", "schedule").Logger(),
		calc: calc.Build,
		days: otter.Must(&otter.Options[string, domain.Schedule]{
			MaximumSize: daysCacheSize,
		}),
	}
	if err := s.Configure(settings); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure подменяет настройки. Расписание пересчитывается при следующем обращении к Current.
func (s *Service) Configure(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("проверка настроек: %w", err)
	}
	prev := s.settings.Swap(&settings)
	if prev != nil && prev.CalculationKey() != settings.CalculationKey() {
		s.log.Info().Str("key", settings.CalculationKey().String()).Msg("schedule: calculation settings changed")
	}
	return nil
}

// Settings возвращает действующие настройки.
func (s *Service) Settings() domain.Settings {
	return *s.settings.Load()
}

// Current возвращает расписание на локальную дату now, пересчитывая его при необходимости.
func (s *Service) Current(now time.Time) (domain.Schedule, error) {
	settings := s.Settings()
	date := domain.DateOf(now.In(settings.Location))
	key := settings.CalculationKey()

	snap := s.current.Load()
	reason := "initial"
	if snap != nil {
		if snap.Schedule.Date == date && snap.Key == key {
			return snap.Schedule, nil
		}
		reason = "rollover"
		if snap.Key != key {
			reason = "settings"
		}
	}

	sched, err := s.calc(date, settings)
	if err != nil {
		metrics.IncScheduleError()
		return domain.Schedule{}, fmt.Errorf("расчёт расписания на %s: %w", date, err)
	}
	s.current.Store(&Snapshot{Schedule: sched, Key: key, ComputedAt: now})
	metrics.IncRecompute(reason)
	s.log.Info().Str("date", date.String()).Str("reason", reason).Msg("schedule: recomputed")
	return sched, nil
}

// Snapshot возвращает последнее опубликованное расписание.
func (s *Service) Snapshot() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// ForDate считает расписание на произвольную дату. Планировщиком для текущего дня не используется.
func (s *Service) ForDate(date domain.Date) (domain.Schedule, error) {
	settings := s.Settings()
	cacheKey := date.String() + "|" + settings.CalculationKey().String()
	if sched, ok := s.days.GetIfPresent(cacheKey); ok {
		return sched, nil
	}
	sched, err := s.calc(date, settings)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("расчёт расписания на %s: %w", date, err)
	}
	s.days.Set(cacheKey, sched)
	return sched, nil
}

// LoadLocation загружает часовой пояс, допуская пробелы и произвольный регистр.
func LoadLocation(raw string) (*time.Location, error) {
	name, err := NormalizeTimezone(raw)
	if err != nil {
		return nil, err
	}
	return time.LoadLocation(name)
}

// NormalizeTimezone приводит имя часового пояса к виду IANA.
func NormalizeTimezone(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidTimezone)
	}
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if _, err := time.LoadLocation(candidate); err == nil {
		return candidate, nil
	}

	lower := strings.ToLower(candidate)
	parts := strings.Split(lower, "/")
	for i, part := range parts {
		segments := strings.Split(part, "_")
		for j, segment := range segments {
			pieces := strings.Split(segment, "-")
			for k, piece := range pieces {
				if piece == "" {
					continue
				}
				pieces[k] = strings.ToUpper(piece[:1]) + piece[1:]
			}
			segments[j] = strings.Join(pieces, "-")
		}
		parts[i] = strings.Join(segments, "_")
	}
	normalized := strings.Join(parts, "/")
	if _, err := time.LoadLocation(normalized); err == nil {
		return normalized, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, raw)
}

// Today возвращает расписание на локальную дату now, не трогая состояние планировщика.
func (s *Service) Today(now time.Time) (domain.Schedule, error) {
	settings := s.Settings()
	date := domain.DateOf(now.In(settings.Location))
	if snap, ok := s.Snapshot(); ok && snap.Schedule.Date == date && snap.Key == settings.CalculationKey() {
		return snap.Schedule, nil
	}
	return s.ForDate(date)
}

// Next возвращает ближайшее время расписания и обратный отсчёт до него.
func (s *Service) Next(now time.Time) (Upcoming, Remaining, error) {
	today, err := s.Today(now)
	if err != nil {
		return Upcoming{}, Remaining{}, err
	}
	tomorrow, err := s.ForDate(today.Date.AddDays(1))
	if err != nil {
		return Upcoming{}, Remaining{}, err
	}
	next, ok := NextPrayer(today, tomorrow, now)
	if !ok {
		return Upcoming{}, Remaining{}, ErrNoUpcoming
	}
	return next, Countdown(now, next.At), nil
}

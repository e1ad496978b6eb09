package schedule

import (
	"time"

	"hilal/internal/domain"
)

// Upcoming описывает ближайшее время расписания.
type Upcoming struct {
	Prayer domain.Prayer
	Date   domain.Date
	At     time.Time
}

// NextPrayer возвращает первое время после now. После Иша берётся Фаджр следующего дня.
// Восход учитывается как обычное время расписания.
func NextPrayer(today, tomorrow domain.Schedule, now time.Time) (Upcoming, bool) {
	for _, sched := range []domain.Schedule{today, tomorrow} {
		for _, p := range domain.AllPrayers {
			at, ok := sched.Time(p)
			if ok && now.Before(at) {
				return Upcoming{Prayer: p, Date: sched.Date, At: at}, true
			}
		}
	}
	return Upcoming{}, false
}

// Remaining хранит обратный отсчёт до времени.
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
}

// Countdown считает оставшееся время с точностью до секунды. Прошедшее время даёт ноль.
func Countdown(now, target time.Time) Remaining {
	diff := target.Sub(now)
	if diff <= 0 {
		return Remaining{}
	}
	total := int(diff / time.Second)
	return Remaining{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
		Total:   time.Duration(total) * time.Second,
	}
}

// FormatClock форматирует время как 15:04 или 3:04 PM.
func FormatClock(t time.Time, format domain.TimeFormat) string {
	if t.IsZero() {
		return "--:--"
	}
	if format == domain.TimeFormat24h {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

// FormatPrayerTime форматирует время расписания, недоступное время выводится прочерком.
func FormatPrayerTime(pt domain.PrayerTime, format domain.TimeFormat) string {
	if !pt.Available {
		return "--:--"
	}
	return FormatClock(pt.At, format)
}

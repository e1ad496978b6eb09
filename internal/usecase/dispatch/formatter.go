package dispatch

import (
	"fmt"
	"strings"
	"time"

	"hilal/internal/domain"
	"hilal/internal/usecase/schedule"
)

var titles = map[domain.Language]string{
	domain.LanguageArabic:  "حي على الصلاة",
	domain.LanguageEnglish: "Let's Pray",
}

// FormatNotification формирует заголовок и текст уведомления о наступлении времени.
func FormatNotification(event domain.AdhanEvent, settings domain.Settings) (string, string) {
	title, ok := titles[settings.Language]
	if !ok {
		title = titles[domain.LanguageArabic]
	}
	clock := schedule.FormatClock(event.ScheduledAt.In(locationOf(settings)), settings.TimeFormat)
	name := event.Prayer.Title(settings.Language)
	if settings.Language == domain.LanguageEnglish {
		return title, fmt.Sprintf("It's time for %s prayer (%s)", name, clock)
	}
	return title, fmt.Sprintf("حان الآن موعد صلاة %s (%s)", name, clock)
}

// FormatSchedule формирует текстовое расписание дня для чатов.
func FormatSchedule(sched domain.Schedule, settings domain.Settings) string {
	var b strings.Builder
	header := sched.Date.String()
	if h, err := schedule.HijriOf(sched.Date); err == nil {
		header += " (" + h.Format(settings.Language) + ")"
	}
	if settings.Language == domain.LanguageEnglish {
		b.WriteString("Prayer times for " + header + "\n")
	} else {
		b.WriteString("مواقيت الصلاة " + header + "\n")
	}
	for _, p := range domain.AllPrayers {
		pt := sched.Times[p]
		if pt.Available {
			pt.At = pt.At.In(locationOf(settings))
		}
		b.WriteString(p.Title(settings.Language) + ": " + schedule.FormatPrayerTime(pt, settings.TimeFormat) + "\n")
	}
	return strings.TrimSpace(b.String())
}

// FormatUpcoming описывает ближайшее время и обратный отсчёт.
func FormatUpcoming(next schedule.Upcoming, left schedule.Remaining, settings domain.Settings) string {
	clock := schedule.FormatClock(next.At.In(locationOf(settings)), settings.TimeFormat)
	countdown := fmt.Sprintf("%02d:%02d:%02d", left.Hours, left.Minutes, left.Seconds)
	if settings.Language == domain.LanguageEnglish {
		return fmt.Sprintf("Next: %s at %s, in %s", next.Prayer.Title(settings.Language), clock, countdown)
	}
	return fmt.Sprintf("الصلاة القادمة: %s الساعة %s، بعد %s", next.Prayer.Title(settings.Language), clock, countdown)
}

func locationOf(settings domain.Settings) *time.Location {
	if settings.Location == nil {
		return time.Local
	}
	return settings.Location
}

package schedule

import (
	"testing"
	"time"

	"hilal/internal/domain"
)

func TestNextPrayer(t *testing.T) {
	today := scheduleWith(day1, map[domain.Prayer]time.Time{
		domain.Fajr:    at(day1, 3, 0, 0),
		domain.Sunrise: at(day1, 4, 40, 0),
		domain.Dhuhr:   at(day1, 12, 5, 0),
		domain.Asr:     at(day1, 16, 20, 0),
		domain.Maghrib: at(day1, 20, 22, 0),
		domain.Isha:    at(day1, 22, 0, 0),
	})
	tomorrow := scheduleWith(day2, map[domain.Prayer]time.Time{domain.Fajr: at(day2, 3, 1, 0)})

	tests := []struct {
		name string
		now  time.Time
		want domain.Prayer
		date domain.Date
	}{
		{name: "before fajr", now: at(day1, 1, 0, 0), want: domain.Fajr, date: day1},
		{name: "sunrise counts", now: at(day1, 3, 30, 0), want: domain.Sunrise, date: day1},
		{name: "exactly at dhuhr", now: at(day1, 12, 5, 0), want: domain.Asr, date: day1},
		{name: "after isha", now: at(day1, 23, 0, 0), want: domain.Fajr, date: day2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextPrayer(today, tomorrow, tt.now)
			if !ok {
				t.Fatalf("NextPrayer returned nothing")
			}
			if got.Prayer != tt.want || got.Date != tt.date {
				t.Fatalf("NextPrayer = %s on %s, want %s on %s", got.Prayer, got.Date, tt.want, tt.date)
			}
		})
	}
	if _, ok := NextPrayer(domain.Schedule{}, domain.Schedule{}, at(day1, 1, 0, 0)); ok {
		t.Fatalf("empty schedules have no next prayer")
	}
}

func TestCountdown(t *testing.T) {
	now := at(day1, 10, 0, 0)
	got := Countdown(now, now.Add(2*time.Hour+3*time.Minute+4*time.Second+900*time.Millisecond))
	if got.Hours != 2 || got.Minutes != 3 || got.Seconds != 4 {
		t.Fatalf("Countdown = %+v", got)
	}
	if got.Total != 2*time.Hour+3*time.Minute+4*time.Second {
		t.Fatalf("Total = %s", got.Total)
	}
	if past := Countdown(now, now.Add(-time.Minute)); past != (Remaining{}) {
		t.Fatalf("past target must give zero, got %+v", past)
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2025, 1, 1, 15, 7, 0, 0, time.UTC)
	if got := FormatClock(ts, domain.TimeFormat24h); got != "15:07" {
		t.Fatalf("24h = %q", got)
	}
	if got := FormatClock(ts, domain.TimeFormat12h); got != "3:07 PM" {
		t.Fatalf("12h = %q", got)
	}
	if got := FormatPrayerTime(domain.Unavailable, domain.TimeFormat24h); got != "--:--" {
		t.Fatalf("unavailable = %q", got)
	}
}

package calc

import (
	"errors"
	"math"
	"testing"
	"time"

	"hilal/internal/domain"
)

var (
	makkah  = domain.GeoCoordinate{Latitude: 21.4225, Longitude: 39.8262}
	raleigh = domain.GeoCoordinate{Latitude: 35.7750, Longitude: -78.6336}
	london  = domain.GeoCoordinate{Latitude: 51.5074, Longitude: -0.1278}
	tromso  = domain.GeoCoordinate{Latitude: 69.6492, Longitude: 18.9553}
)

func mustParams(t *testing.T, method domain.Method, madhab domain.Madhab, rule domain.HighLatitudeRule) domain.CalculationParameters {
	t.Helper()
	p, err := NewParameters(method, madhab, rule)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	return p
}

func assertClock(t *testing.T, s domain.Schedule, want [domain.PrayerCount]string) {
	t.Helper()
	for i, p := range domain.AllPrayers {
		at, ok := s.Time(p)
		if !ok {
			t.Fatalf("%s unavailable", p)
		}
		wantAt, err := time.ParseInLocation("2006-01-02 15:04", s.Date.String()+" "+want[i], s.Location)
		if err != nil {
			t.Fatalf("parse %q: %v", want[i], err)
		}
		if diff := at.Sub(wantAt); diff < -time.Minute || diff > time.Minute {
			t.Fatalf("%s = %s, want %s", p, at.Format("15:04"), want[i])
		}
	}
}

func TestComputeMakkahUmmAlQura(t *testing.T) {
	loc := time.FixedZone("AST", 3*3600)
	s, err := Compute(domain.Date{Year: 2024, Month: time.March, Day: 15}, loc, makkah, mustParams(t, domain.MethodUmmAlQura, domain.MadhabShafi, domain.MiddleOfTheNight))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	assertClock(t, s, [domain.PrayerCount]string{"05:13", "06:29", "12:29", "15:54", "18:30", "20:00"})
	isha, _ := s.Time(domain.Isha)
	maghrib, _ := s.Time(domain.Maghrib)
	if isha.Sub(maghrib) != 90*time.Minute {
		t.Fatalf("isha should be 90 minutes after maghrib, got %s", isha.Sub(maghrib))
	}
}

func TestComputeNorthAmericaHanafi(t *testing.T) {
	loc := time.FixedZone("EDT", -4*3600)
	s, err := Compute(domain.Date{Year: 2015, Month: time.July, Day: 12}, loc, raleigh, mustParams(t, domain.MethodNorthAmerica, domain.MadhabHanafi, domain.MiddleOfTheNight))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	assertClock(t, s, [domain.PrayerCount]string{"04:42", "06:08", "13:21", "18:22", "20:32", "21:57"})
}

func TestComputeReturnsLocalInstantsRoundedToMinute(t *testing.T) {
	loc := time.FixedZone("AST", 3*3600)
	s, err := Compute(domain.Date{Year: 2025, Month: time.June, Day: 21}, loc, makkah, mustParams(t, domain.MethodUmmAlQura, domain.MadhabShafi, domain.MiddleOfTheNight))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for _, pt := range s.Times {
		if pt.At.Location() != loc {
			t.Fatalf("expected instants in caller location, got %s", pt.At.Location())
		}
		if pt.At.Second() != 0 || pt.At.Nanosecond() != 0 {
			t.Fatalf("expected whole minutes, got %s", pt.At)
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	date := domain.Date{Year: 2025, Month: time.October, Day: 3}
	p := mustParams(t, domain.MethodMoonsightingCommittee, domain.MadhabHanafi, domain.SeventhOfTheNight)
	a, err := Compute(date, time.UTC, london, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, err := Compute(date, time.UTC, london, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := range a.Times {
		if a.Times[i] != b.Times[i] {
			t.Fatalf("%s differs between calls: %v vs %v", domain.Prayer(i), a.Times[i], b.Times[i])
		}
	}
}

func TestComputeStrictlyIncreasing(t *testing.T) {
	cities := []domain.GeoCoordinate{
		makkah,
		{Latitude: -6.2088, Longitude: 106.8456},
		{Latitude: 30.0444, Longitude: 31.2357},
		{Latitude: 40.7128, Longitude: -74.0060},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 24.8607, Longitude: 67.0011},
		{Latitude: 35.6892, Longitude: 51.3890},
		{Latitude: -33.9249, Longitude: 18.4241},
		{Latitude: -0.1807, Longitude: -78.4678},
		{Latitude: 40.4168, Longitude: -3.7038},
		{Latitude: 1.3521, Longitude: 103.8198},
		{Latitude: 25.2048, Longitude: 55.2708},
	}
	for _, method := range domain.Methods {
		for _, madhab := range []domain.Madhab{domain.MadhabShafi, domain.MadhabHanafi} {
			p := mustParams(t, method, madhab, domain.MiddleOfTheNight)
			for _, city := range cities {
				for month := time.January; month <= time.December; month++ {
					for _, day := range []int{1, 15} {
						date := domain.Date{Year: 2025, Month: month, Day: day}
						s, err := Compute(date, time.UTC, city, p)
						if err != nil {
							t.Fatalf("Compute(%v, %v): %v", date, city, err)
						}
						if !s.Complete() {
							t.Fatalf("%s %s %v %v: expected all times available", method, madhab, city, date)
						}
						if !s.Ordered() {
							t.Fatalf("%s %s %v %v: order violated: %v", method, madhab, city, date, s.Times)
						}
					}
				}
			}
		}
	}
}

func TestComputeRejectsInvalidCoordinate(t *testing.T) {
	p := mustParams(t, domain.MethodMuslimWorldLeague, domain.MadhabShafi, domain.MiddleOfTheNight)
	bad := []domain.GeoCoordinate{
		{Latitude: 91, Longitude: 0},
		{Latitude: -90.5, Longitude: 0},
		{Latitude: 0, Longitude: 180.1},
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(1)},
	}
	for _, c := range bad {
		if _, err := Compute(domain.Date{Year: 2025, Month: time.May, Day: 1}, time.UTC, c, p); !errors.Is(err, domain.ErrInvalidCoordinate) {
			t.Fatalf("Compute(%v) error = %v, want ErrInvalidCoordinate", c, err)
		}
	}
}

func TestComputePolarDayMarksUnavailable(t *testing.T) {
	p := mustParams(t, domain.MethodMuslimWorldLeague, domain.MadhabShafi, domain.MiddleOfTheNight)
	s, err := Compute(domain.Date{Year: 2025, Month: time.June, Day: 21}, time.UTC, tromso, p)
	if err != nil {
		t.Fatalf("polar day must not be an error: %v", err)
	}
	for _, prayer := range []domain.Prayer{domain.Fajr, domain.Sunrise, domain.Maghrib, domain.Isha} {
		if _, ok := s.Time(prayer); ok {
			t.Fatalf("%s should be unavailable during midnight sun", prayer)
		}
	}
	if _, ok := s.Time(domain.Dhuhr); !ok {
		t.Fatalf("dhuhr is always available")
	}
}

func TestComputeHighLatitudeMiddleOfTheNight(t *testing.T) {
	date := domain.Date{Year: 2025, Month: time.June, Day: 21}
	p := mustParams(t, domain.MethodMuslimWorldLeague, domain.MadhabShafi, domain.MiddleOfTheNight)
	s, err := Compute(date, time.UTC, london, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !s.Complete() || !s.Ordered() {
		t.Fatalf("expected corrected complete schedule, got %v", s.Times)
	}
	next, err := Compute(date.AddDays(1), time.UTC, london, p)
	if err != nil {
		t.Fatalf("Compute next: %v", err)
	}
	maghrib, _ := s.Time(domain.Maghrib)
	isha, _ := s.Time(domain.Isha)
	nextSunrise, _ := next.Time(domain.Sunrise)
	midnight := maghrib.Add(nextSunrise.Sub(maghrib) / 2)
	if diff := isha.Sub(midnight); diff < -2*time.Minute || diff > 2*time.Minute {
		t.Fatalf("isha %s should sit at the middle of the night %s", isha, midnight)
	}
	if !isha.After(utcMidnight(date.AddDays(1))) {
		t.Fatalf("midsummer london isha falls after midnight, got %s", isha)
	}
}

func TestComputeTehranMaghribAngle(t *testing.T) {
	date := domain.Date{Year: 2025, Month: time.March, Day: 1}
	tehran := domain.GeoCoordinate{Latitude: 35.6892, Longitude: 51.3890}
	s, err := Compute(date, time.UTC, tehran, mustParams(t, domain.MethodTehran, domain.MadhabShafi, domain.MiddleOfTheNight))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	mwl, err := Compute(date, time.UTC, tehran, mustParams(t, domain.MethodKuwait, domain.MadhabShafi, domain.MiddleOfTheNight))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	maghrib, _ := s.Time(domain.Maghrib)
	sunset, _ := mwl.Time(domain.Maghrib)
	if diff := maghrib.Sub(sunset); diff < 10*time.Minute || diff > 25*time.Minute {
		t.Fatalf("tehran maghrib should follow sunset by the 4.5° depression, got %s", diff)
	}
}

func TestBuildAppliesOffsets(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Location = time.UTC
	date := domain.Date{Year: 2025, Month: time.January, Day: 10}
	base, err := Build(date, settings)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	settings.Offsets[domain.Asr] = 7
	settings.Offsets[domain.Fajr] = -3
	shifted, err := Build(date, settings)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := shifted.Times[domain.Asr].At.Sub(base.Times[domain.Asr].At); got != 7*time.Minute {
		t.Fatalf("asr offset = %s, want 7m", got)
	}
	if got := shifted.Times[domain.Fajr].At.Sub(base.Times[domain.Fajr].At); got != -3*time.Minute {
		t.Fatalf("fajr offset = %s, want -3m", got)
	}
	if shifted.Times[domain.Dhuhr] != base.Times[domain.Dhuhr] {
		t.Fatalf("dhuhr should be untouched")
	}
}

func TestRoundMinute(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in   time.Duration
		mode domain.Rounding
		want time.Duration
	}{
		{in: 29 * time.Second, mode: domain.RoundNearest, want: 0},
		{in: 30 * time.Second, mode: domain.RoundNearest, want: time.Minute},
		{in: 1 * time.Second, mode: domain.RoundUp, want: time.Minute},
		{in: 0, mode: domain.RoundUp, want: time.Minute},
		{in: 59 * time.Second, mode: domain.RoundUp, want: time.Minute},
	}
	for _, tc := range cases {
		if got := roundMinute(base.Add(tc.in), tc.mode).Sub(base); got != tc.want {
			t.Fatalf("roundMinute(+%s, %d) = +%s, want +%s", tc.in, tc.mode, got, tc.want)
		}
	}
}

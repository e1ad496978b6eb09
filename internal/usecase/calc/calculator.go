package calc

import (
	"fmt"
	"math"
	"time"

	"hilal/internal/domain"
)

// Compute рассчитывает шесть времён на календарную дату date в локации loc.
// Дата берётся как локальная: расчёт ведётся от 0h UT этой же календарной даты,
// результат переводится в loc. Отсутствие решения для отдельного времени
// не является ошибкой и отражается флагом Available.
func Compute(date domain.Date, loc *time.Location, coord domain.GeoCoordinate, p domain.CalculationParameters) (domain.Schedule, error) {
	if err := coord.Validate(); err != nil {
		return domain.Schedule{}, err
	}
	if date.IsZero() {
		return domain.Schedule{}, fmt.Errorf("%w: empty date", domain.ErrInvalidSettings)
	}
	if loc == nil {
		loc = time.Local
	}

	st := newSolarTime(date, coord)
	base := utcMidnight(date)
	at := func(hours float64, ok bool) domain.PrayerTime {
		if !ok {
			return domain.Unavailable
		}
		return domain.AvailableAt(fromHours(base, hours))
	}

	sunrise := at(st.sunrise, st.hasRise)
	sunset := at(st.sunset, st.hasSet)
	dhuhr := at(st.transit, true)
	asr := at(st.afternoon(p.Madhab.ShadowFactor()))
	fajr := at(st.hourAngle(-p.FajrAngle, false))

	var isha domain.PrayerTime
	if p.IshaInterval > 0 {
		isha = sunset.Shift(time.Duration(p.IshaInterval) * time.Minute)
	} else {
		isha = at(st.hourAngle(-p.IshaAngle, true))
	}

	tomorrow := date.AddDays(1)
	nextSolar := newSolarTime(tomorrow, coord)
	nextSunrise := domain.Unavailable
	if nextSolar.hasRise {
		nextSunrise = domain.AvailableAt(fromHours(utcMidnight(tomorrow), nextSolar.sunrise))
	}
	fajr, isha = CorrectHighLatitude(fajr, isha, Night{Sunrise: sunrise, Sunset: sunset, NextSunrise: nextSunrise}, date, coord.Latitude, p)

	maghrib := sunset
	if p.MaghribAngle > 0 && sunset.Available && isha.Available {
		angled := at(st.hourAngle(-p.MaghribAngle, true))
		if angled.Available && sunset.At.Before(angled.At) && isha.At.After(angled.At) {
			maghrib = angled
		}
	}

	raw := [domain.PrayerCount]domain.PrayerTime{fajr, sunrise, dhuhr, asr, maghrib, isha}
	schedule := domain.Schedule{Date: date, Location: loc}
	for i, t := range raw {
		t = t.Shift(time.Duration(p.Adjustments[i]) * time.Minute)
		if t.Available {
			t.At = roundMinute(t.At, p.Rounding).In(loc)
		}
		schedule.Times[i] = t
	}
	return schedule, nil
}

// Build проходит весь конвейер: параметры, расчёт, высокие широты, ручные поправки.
func Build(date domain.Date, s domain.Settings) (domain.Schedule, error) {
	if err := s.Coordinate.Validate(); err != nil {
		return domain.Schedule{}, err
	}
	params, err := ParametersFor(s)
	if err != nil {
		return domain.Schedule{}, err
	}
	schedule, err := Compute(date, s.Location, s.Coordinate, params)
	if err != nil {
		return domain.Schedule{}, err
	}
	return ApplyOffsets(schedule, s.Offsets), nil
}

func utcMidnight(d domain.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func fromHours(base time.Time, hours float64) time.Time {
	return base.Add(time.Duration(math.Floor(hours*3600)) * time.Second)
}

func roundMinute(t time.Time, mode domain.Rounding) time.Time {
	floor := t.Truncate(time.Minute)
	rest := t.Sub(floor)
	switch mode {
	case domain.RoundUp:
		// Целая минута тоже сдвигается вперёд.
		return floor.Add(time.Minute)
	default:
		if rest >= 30*time.Second {
			return floor.Add(time.Minute)
		}
	}
	return floor
}

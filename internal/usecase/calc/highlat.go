package calc

import (
	"math"
	"time"

	"hilal/internal/domain"
)

const moonsightingNightLatitude = 55.0

// Night описывает ночь между закатом этого дня и восходом следующего.
type Night struct {
	Sunrise     domain.PrayerTime
	Sunset      domain.PrayerTime
	NextSunrise domain.PrayerTime
}

// Duration возвращает длительность ночи, если все три момента известны.
func (n Night) Duration() (time.Duration, bool) {
	if !n.Sunrise.Available || !n.Sunset.Available || !n.NextSunrise.Available {
		return 0, false
	}
	d := n.NextSunrise.At.Sub(n.Sunset.At)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// NightPortions возвращает доли ночи, ограничивающие Фаджр и Иша.
func NightPortions(p domain.CalculationParameters) (fajr, isha float64) {
	switch p.HighLatitude {
	case domain.SeventhOfTheNight:
		return 1.0 / 7, 1.0 / 7
	case domain.TwilightAngle:
		return p.FajrAngle / 60, p.IshaAngle / 60
	default:
		return 0.5, 0.5
	}
}

// CorrectHighLatitude подставляет Фаджр и Иша из доли ночи, когда угловой расчёт
// не дал решения или вышел за безопасную границу выбранного правила.
// Иша с фиксированным интервалом после Магриба не корректируется.
func CorrectHighLatitude(fajr, isha domain.PrayerTime, night Night, date domain.Date, latitude float64, p domain.CalculationParameters) (domain.PrayerTime, domain.PrayerTime) {
	length, ok := night.Duration()
	if !ok {
		return fajr, isha
	}
	fajrPortion, ishaPortion := NightPortions(p)
	moonsighting := p.Method == domain.MethodMoonsightingCommittee

	if moonsighting && latitude >= moonsightingNightLatitude {
		fajr = domain.AvailableAt(night.Sunrise.At.Add(-seconds(length.Seconds() / 7)))
	}
	var safeFajr time.Time
	if moonsighting {
		safeFajr = seasonAdjustedMorningTwilight(latitude, date, night.Sunrise.At)
	} else {
		safeFajr = night.Sunrise.At.Add(-seconds(fajrPortion * length.Seconds()))
	}
	if !fajr.Available || safeFajr.After(fajr.At) {
		fajr = domain.AvailableAt(safeFajr)
	}

	if p.IshaInterval > 0 {
		return fajr, isha
	}
	if moonsighting && latitude >= moonsightingNightLatitude {
		isha = domain.AvailableAt(night.Sunset.At.Add(seconds(length.Seconds() / 7)))
	}
	var safeIsha time.Time
	if moonsighting {
		safeIsha = seasonAdjustedEveningTwilight(latitude, date, night.Sunset.At)
	} else {
		safeIsha = night.Sunset.At.Add(seconds(ishaPortion * length.Seconds()))
	}
	if !isha.Available || safeIsha.Before(isha.At) {
		isha = domain.AvailableAt(safeIsha)
	}
	return fajr, isha
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Trunc(s)) * time.Second
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysSinceSolstice(date domain.Date, latitude float64) int {
	dayOfYear := date.YearDay()
	daysInYear := 365
	southernOffset := 172
	if isLeapYear(date.Year) {
		daysInYear = 366
		southernOffset = 173
	}
	if latitude >= 0 {
		days := dayOfYear + 10
		if days >= daysInYear {
			days -= daysInYear
		}
		return days
	}
	days := dayOfYear - southernOffset
	if days < 0 {
		days += daysInYear
	}
	return days
}

// seasonalMinutes интерполирует сезонную поправку по четырём опорным точкам года.
func seasonalMinutes(a, b, c, d float64, days int) float64 {
	dyy := float64(days)
	switch {
	case dyy < 91:
		return a + (b-a)/91*dyy
	case dyy < 137:
		return b + (c-b)/46*(dyy-91)
	case dyy < 183:
		return c + (d-c)/46*(dyy-137)
	case dyy < 229:
		return d + (c-d)/46*(dyy-183)
	case dyy < 275:
		return c + (b-c)/46*(dyy-229)
	default:
		return b + (a-b)/91*(dyy-275)
	}
}

func seasonAdjustedMorningTwilight(latitude float64, date domain.Date, sunrise time.Time) time.Time {
	lat := math.Abs(latitude)
	a := 75 + 28.65/55*lat
	b := 75 + 19.44/55*lat
	c := 75 + 32.74/55*lat
	d := 75 + 48.1/55*lat
	minutes := seasonalMinutes(a, b, c, d, daysSinceSolstice(date, latitude))
	return sunrise.Add(time.Duration(math.Round(minutes*-60)) * time.Second)
}

// seasonAdjustedEveningTwilight использует общий шафак (смесь красного и белого).
func seasonAdjustedEveningTwilight(latitude float64, date domain.Date, sunset time.Time) time.Time {
	lat := math.Abs(latitude)
	a := 75 + 25.6/55*lat
	b := 75 + 2.05/55*lat
	c := 75 - 9.21/55*lat
	d := 75 + 6.14/55*lat
	minutes := seasonalMinutes(a, b, c, d, daysSinceSolstice(date, latitude))
	return sunset.Add(time.Duration(math.Round(minutes*60)) * time.Second)
}

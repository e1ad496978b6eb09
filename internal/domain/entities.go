package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// GeoCoordinate описывает точку наблюдения в градусах.
type GeoCoordinate struct {
	Latitude  float64
	Longitude float64
}

// Validate проверяет диапазоны до любых тригонометрических расчётов.
func (c GeoCoordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Method задаёт соглашение о расчёте с фиксированными углами сумерек.
type Method string

const (
	MethodMuslimWorldLeague     Method = "MuslimWorldLeague"
	MethodNorthAmerica          Method = "NorthAmerica"
	MethodEgyptian              Method = "Egyptian"
	MethodUmmAlQura             Method = "UmmAlQura"
	MethodKarachi               Method = "Karachi"
	MethodTehran                Method = "Tehran"
	MethodDubai                 Method = "Dubai"
	MethodKuwait                Method = "Kuwait"
	MethodQatar                 Method = "Qatar"
	MethodSingapore             Method = "Singapore"
	MethodMoonsightingCommittee Method = "MoonsightingCommittee"
)

// Methods перечисляет все поддерживаемые соглашения.
var Methods = []Method{
	MethodMuslimWorldLeague,
	MethodNorthAmerica,
	MethodEgyptian,
	MethodUmmAlQura,
	MethodKarachi,
	MethodTehran,
	MethodDubai,
	MethodKuwait,
	MethodQatar,
	MethodSingapore,
	MethodMoonsightingCommittee,
}

// ParseMethod разбирает название метода. ISNA принимается как синоним NorthAmerica.
func ParseMethod(raw string) (Method, error) {
	key := strings.TrimSpace(raw)
	if strings.EqualFold(key, "ISNA") {
		return MethodNorthAmerica, nil
	}
	for _, m := range Methods {
		if strings.EqualFold(string(m), key) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, raw)
}

// Madhab определяет множитель тени для Асра.
type Madhab string

const (
	MadhabShafi  Madhab = "Shafi"
	MadhabHanafi Madhab = "Hanafi"
)

// ParseMadhab разбирает мазхаб без учёта регистра.
func ParseMadhab(raw string) (Madhab, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "shafi":
		return MadhabShafi, nil
	case "hanafi":
		return MadhabHanafi, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMadhab, raw)
}

// ShadowFactor возвращает длину тени относительно высоты предмета.
func (m Madhab) ShadowFactor() float64 {
	if m == MadhabHanafi {
		return 2
	}
	return 1
}

// HighLatitudeRule задаёт долю ночи для Фаджра и Иша на высоких широтах.
type HighLatitudeRule string

const (
	MiddleOfTheNight  HighLatitudeRule = "MiddleOfTheNight"
	SeventhOfTheNight HighLatitudeRule = "SeventhOfTheNight"
	TwilightAngle     HighLatitudeRule = "TwilightAngle"
)

// ParseHighLatitudeRule разбирает правило без учёта регистра.
func ParseHighLatitudeRule(raw string) (HighLatitudeRule, error) {
	key := strings.TrimSpace(raw)
	for _, r := range []HighLatitudeRule{MiddleOfTheNight, SeventhOfTheNight, TwilightAngle} {
		if strings.EqualFold(string(r), key) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHighLatitudeRule, raw)
}

// Rounding задаёт округление итоговых времён до минуты.
type Rounding int

const (
	RoundNearest Rounding = iota
	RoundUp
)

// Offsets хранит ручные поправки в минутах по каждому времени.
type Offsets [PrayerCount]int

// Minutes возвращает поправку для намаза.
func (o Offsets) Minutes(p Prayer) int {
	if !p.Valid() {
		return 0
	}
	return o[p]
}

// CalculationParameters хранит неизменяемый набор констант расчёта.
type CalculationParameters struct {
	Method       Method
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval int
	MaghribAngle float64
	Adjustments  Offsets
	Madhab       Madhab
	HighLatitude HighLatitudeRule
	Rounding     Rounding
}

// PrayerTime хранит момент намаза или признак того, что он не существует в этот день.
type PrayerTime struct {
	At        time.Time
	Available bool
}

// AvailableAt создаёт доступное время.
func AvailableAt(at time.Time) PrayerTime {
	return PrayerTime{At: at, Available: true}
}

// Unavailable обозначает время, для которого уравнение часового угла не имеет решения.
var Unavailable = PrayerTime{}

// Shift сдвигает доступное время на d.
func (t PrayerTime) Shift(d time.Duration) PrayerTime {
	if !t.Available {
		return t
	}
	return AvailableAt(t.At.Add(d))
}

// Schedule содержит расписание на одну календарную дату.
type Schedule struct {
	Date     Date
	Location *time.Location
	Times    [PrayerCount]PrayerTime
}

// Time возвращает момент намаза и признак его наличия.
func (s Schedule) Time(p Prayer) (time.Time, bool) {
	if !p.Valid() {
		return time.Time{}, false
	}
	t := s.Times[p]
	return t.At, t.Available
}

// Complete сообщает, что все шесть времён доступны.
func (s Schedule) Complete() bool {
	for _, t := range s.Times {
		if !t.Available {
			return false
		}
	}
	return true
}

// Ordered проверяет строгое возрастание времён, если все они доступны.
func (s Schedule) Ordered() bool {
	if !s.Complete() {
		return true
	}
	for i := 1; i < PrayerCount; i++ {
		if !s.Times[i-1].At.Before(s.Times[i].At) {
			return false
		}
	}
	return true
}

// FiredKey идентифицирует разосланное событие.
type FiredKey struct {
	Date   Date
	Prayer Prayer
}

func (k FiredKey) String() string {
	return k.Date.String() + ":" + k.Prayer.String()
}

package domain

import (
	"fmt"
	"strings"
)

// Prayer обозначает одно из шести времён дневного расписания.
type Prayer int

const (
	Fajr Prayer = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// PrayerCount равно количеству времён в расписании.
const PrayerCount = 6

var prayerNames = [PrayerCount]string{"fajr", "sunrise", "dhuhr", "asr", "maghrib", "isha"}

// AllPrayers перечисляет времена в порядке следования в течение дня.
var AllPrayers = [PrayerCount]Prayer{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// AdhanPrayers перечисляет намазы, для которых звучит азан. Восход сюда не входит.
var AdhanPrayers = [...]Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// String возвращает ключ намаза в нижнем регистре.
func (p Prayer) String() string {
	if !p.Valid() {
		return fmt.Sprintf("prayer(%d)", int(p))
	}
	return prayerNames[p]
}

// Valid сообщает, входит ли значение в закрытый набор.
func (p Prayer) Valid() bool {
	return p >= Fajr && p <= Isha
}

// HasAdhan сообщает, рассылается ли событие для этого времени.
func (p Prayer) HasAdhan() bool {
	return p.Valid() && p != Sunrise
}

// ParsePrayer разбирает ключ намаза без учёта регистра.
func ParsePrayer(raw string) (Prayer, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for i, name := range prayerNames {
		if name == key {
			return Prayer(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPrayer, raw)
}

// MarshalText позволяет использовать Prayer в JSON как строку.
func (p Prayer) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPrayer, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText разбирает строковое представление.
func (p *Prayer) UnmarshalText(text []byte) error {
	parsed, err := ParsePrayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

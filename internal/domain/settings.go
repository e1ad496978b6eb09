package domain

import (
	"fmt"
	"time"
)

// Language задаёт язык текстов уведомлений.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// TimeFormat задаёт формат часов в уведомлениях.
type TimeFormat string

const (
	TimeFormat12h TimeFormat = "12h"
	TimeFormat24h TimeFormat = "24h"
)

// Settings описывает конфигурацию расчёта и рассылки.
type Settings struct {
	Coordinate           GeoCoordinate
	Location             *time.Location
	Method               Method
	Madhab               Madhab
	HighLatitudeRule     HighLatitudeRule
	Offsets              Offsets
	NotificationsEnabled bool
	AudioEnabled         bool
	Muezzin              string
	Language             Language
	TimeFormat           TimeFormat
}

// DefaultSettings повторяет значения по умолчанию настольного приложения: Мекка, Умм аль-Кура.
func DefaultSettings() Settings {
	return Settings{
		Coordinate:           GeoCoordinate{Latitude: 21.4225, Longitude: 39.8262},
		Location:             time.Local,
		Method:               MethodUmmAlQura,
		Madhab:               MadhabShafi,
		HighLatitudeRule:     MiddleOfTheNight,
		NotificationsEnabled: true,
		AudioEnabled:         true,
		Muezzin:              "makkah",
		Language:             LanguageArabic,
		TimeFormat:           TimeFormat12h,
	}
}

// Validate проверяет настройки целиком.
func (s Settings) Validate() error {
	if err := s.Coordinate.Validate(); err != nil {
		return err
	}
	if s.Location == nil {
		return fmt.Errorf("%w: location is nil", ErrInvalidTimezone)
	}
	if _, err := ParseMethod(string(s.Method)); err != nil {
		return err
	}
	if _, err := ParseMadhab(string(s.Madhab)); err != nil {
		return err
	}
	if _, err := ParseHighLatitudeRule(string(s.HighLatitudeRule)); err != nil {
		return err
	}
	switch s.Language {
	case LanguageArabic, LanguageEnglish:
	default:
		return fmt.Errorf("%w: language %q", ErrInvalidSettings, s.Language)
	}
	switch s.TimeFormat {
	case TimeFormat12h, TimeFormat24h:
	default:
		return fmt.Errorf("%w: time format %q", ErrInvalidSettings, s.TimeFormat)
	}
	return nil
}

// CalculationKey выделяет поля настроек, изменение которых требует пересчёта расписания.
type CalculationKey struct {
	Coordinate       GeoCoordinate
	Location         string
	Method           Method
	Madhab           Madhab
	HighLatitudeRule HighLatitudeRule
	Offsets          Offsets
}

// CalculationKey возвращает ключ пересчёта.
func (s Settings) CalculationKey() CalculationKey {
	loc := ""
	if s.Location != nil {
		loc = s.Location.String()
	}
	return CalculationKey{
		Coordinate:       s.Coordinate,
		Location:         loc,
		Method:           s.Method,
		Madhab:           s.Madhab,
		HighLatitudeRule: s.HighLatitudeRule,
		Offsets:          s.Offsets,
	}
}

func (k CalculationKey) String() string {
	return fmt.Sprintf("%.6f,%.6f|%s|%s|%s|%s|%v", k.Coordinate.Latitude, k.Coordinate.Longitude, k.Location, k.Method, k.Madhab, k.HighLatitudeRule, k.Offsets)
}

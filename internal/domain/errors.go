package domain

import "errors"

var (
	// ErrInvalidCoordinate возвращается для координат вне допустимого диапазона.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrUnknownMethod возвращается для неизвестного метода расчёта.
	ErrUnknownMethod = errors.New("unknown calculation method")
	// ErrUnknownMadhab возвращается для неизвестного мазхаба.
	ErrUnknownMadhab = errors.New("unknown madhab")
	// ErrUnknownHighLatitudeRule возвращается для неизвестного правила высоких широт.
	ErrUnknownHighLatitudeRule = errors.New("unknown high latitude rule")
	// ErrUnknownPrayer возвращается для неизвестного ключа намаза.
	ErrUnknownPrayer = errors.New("unknown prayer")
	// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidSettings возвращается для прочих ошибок конфигурации.
	ErrInvalidSettings = errors.New("invalid settings")
)

package calc

import (
	"fmt"

	"hilal/internal/domain"
)

// methodConstants хранит опубликованные константы соглашения.
type methodConstants struct {
	fajrAngle    float64
	ishaAngle    float64
	ishaInterval int
	maghribAngle float64
	adjustments  domain.Offsets
	rounding     domain.Rounding
}

func adjust(sunrise, dhuhr, asr, maghrib int) domain.Offsets {
	var o domain.Offsets
	o[domain.Sunrise] = sunrise
	o[domain.Dhuhr] = dhuhr
	o[domain.Asr] = asr
	o[domain.Maghrib] = maghrib
	return o
}

// Значения должны совпадать с эталонными таблицами, иначе расписание разойдётся с публикуемым.
var methods = map[domain.Method]methodConstants{
	domain.MethodMuslimWorldLeague:     {fajrAngle: 18, ishaAngle: 17, adjustments: adjust(0, 1, 0, 0)},
	domain.MethodNorthAmerica:          {fajrAngle: 15, ishaAngle: 15, adjustments: adjust(0, 1, 0, 0)},
	domain.MethodEgyptian:              {fajrAngle: 19.5, ishaAngle: 17.5, adjustments: adjust(0, 1, 0, 0)},
	domain.MethodUmmAlQura:             {fajrAngle: 18.5, ishaInterval: 90},
	domain.MethodKarachi:               {fajrAngle: 18, ishaAngle: 18, adjustments: adjust(0, 1, 0, 0)},
	domain.MethodTehran:                {fajrAngle: 17.7, ishaAngle: 14, maghribAngle: 4.5},
	domain.MethodDubai:                 {fajrAngle: 18.2, ishaAngle: 18.2, adjustments: adjust(-3, 3, 3, 3)},
	domain.MethodKuwait:                {fajrAngle: 18, ishaAngle: 17.5},
	domain.MethodQatar:                 {fajrAngle: 18, ishaInterval: 90},
	domain.MethodSingapore:             {fajrAngle: 20, ishaAngle: 18, adjustments: adjust(0, 1, 0, 0), rounding: domain.RoundUp},
	domain.MethodMoonsightingCommittee: {fajrAngle: 18, ishaAngle: 18, adjustments: adjust(0, 5, 0, 3)},
}

// NewParameters собирает параметры расчёта из закрытых перечислений.
func NewParameters(method domain.Method, madhab domain.Madhab, rule domain.HighLatitudeRule) (domain.CalculationParameters, error) {
	constants, ok := methods[method]
	if !ok {
		return domain.CalculationParameters{}, fmt.Errorf("%w: %q", domain.ErrUnknownMethod, method)
	}
	if _, err := domain.ParseMadhab(string(madhab)); err != nil {
		return domain.CalculationParameters{}, err
	}
	if _, err := domain.ParseHighLatitudeRule(string(rule)); err != nil {
		return domain.CalculationParameters{}, err
	}
	return domain.CalculationParameters{
		Method:       method,
		FajrAngle:    constants.fajrAngle,
		IshaAngle:    constants.ishaAngle,
		IshaInterval: constants.ishaInterval,
		MaghribAngle: constants.maghribAngle,
		Adjustments:  constants.adjustments,
		Madhab:       madhab,
		HighLatitude: rule,
		Rounding:     constants.rounding,
	}, nil
}

// ParametersFor строит параметры из настроек.
func ParametersFor(s domain.Settings) (domain.CalculationParameters, error) {
	return NewParameters(s.Method, s.Madhab, s.HighLatitudeRule)
}

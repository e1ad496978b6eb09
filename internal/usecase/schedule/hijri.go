package schedule

import (
	"fmt"
	"time"

	hijri "github.com/hablullah/go-hijri"

	"hilal/internal/domain"
)

// HijriOf переводит григорианскую дату в календарь Умм аль-Кура.
// Вне диапазона таблиц календаря возвращается ошибка.
func HijriOf(date domain.Date) (domain.HijriDate, error) {
	noon := time.Date(date.Year, date.Month, date.Day, 12, 0, 0, 0, time.UTC)
	d, err := hijri.CreateUmmAlQuraDate(noon)
	if err != nil {
		return domain.HijriDate{}, fmt.Errorf("дата по хиджре для %s: %w", date, err)
	}
	return domain.HijriDate{Year: int(d.Year), Month: int(d.Month), Day: int(d.Day)}, nil
}

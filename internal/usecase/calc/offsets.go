package calc

import (
	"time"

	"hilal/internal/domain"
)

// ApplyOffsets сдвигает каждое доступное время на свою поправку в минутах.
// Порядок времён после сдвига не проверяется: крупные поправки могут его нарушить.
func ApplyOffsets(s domain.Schedule, offsets domain.Offsets) domain.Schedule {
	for i := range s.Times {
		s.Times[i] = s.Times[i].Shift(time.Duration(offsets[i]) * time.Minute)
	}
	return s
}

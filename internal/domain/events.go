package domain

import (
	"context"
	"time"
)

// AdhanCause описывает, как планировщик обнаружил наступление времени.
type AdhanCause string

const (
	// AdhanCauseCrossing: время попало в интервал между двумя тиками.
	AdhanCauseCrossing AdhanCause = "crossing"
	// AdhanCauseColdStart: процесс стартовал в пределах допуска от времени намаза.
	AdhanCauseColdStart AdhanCause = "cold_start"
)

// AdhanEvent сообщает внешним приёмникам о наступлении времени намаза.
type AdhanEvent struct {
	ID          string     `json:"event_id"`
	Prayer      Prayer     `json:"prayer"`
	Date        Date       `json:"date"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	FiredAt     time.Time  `json:"fired_at"`
	Cause       AdhanCause `json:"cause"`
}

// Key возвращает ключ дедупликации события.
func (e AdhanEvent) Key() FiredKey {
	return FiredKey{Date: e.Date, Prayer: e.Prayer}
}

// EventPublisher публикует события в очередь или брокер.
type EventPublisher interface {
	Publish(ctx context.Context, event AdhanEvent) error
}

// FiredStore отвечает за идемпотентную отметку разосланных событий между перезапусками.
type FiredStore interface {
	// Acquire помечает событие и возвращает true, если отметка создана впервые.
	// При повторе возвращает false без ошибки.
	Acquire(ctx context.Context, key FiredKey) (bool, error)
}

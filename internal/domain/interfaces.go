package domain

import "context"

// Dispatcher принимает события планировщика. Вызов не должен блокировать тик.
type Dispatcher interface {
	Dispatch(event AdhanEvent)
}

// Notifier показывает уведомление. Ошибка логируется вызывающей стороной и не пробрасывается.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// AudioPlayer воспроизводит азан выбранного муэдзина.
type AudioPlayer interface {
	Play(ctx context.Context, voice string) error
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hilal/internal/infra/metrics"
)

// Sender описывает часть клиента Bot API, нужную для отправки сообщений.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет уведомления о намазе в чат Telegram.
type Notifier struct {
	sender   Sender
	chatID   int64
	log      zerolog.Logger
	attempts uint
	delay    time.Duration
}

// NewNotifier создаёт уведомитель для чата.
func NewNotifier(sender Sender, chatID int64, logger zerolog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		chatID:   chatID,
		log:      logger.With().Str("component", "telegram").Logger(),
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
}

// Name возвращает имя приёмника для логов и метрик.
func (n *Notifier) Name() string { return "telegram" }

// Notify отправляет заголовок и текст одним сообщением, при необходимости разбивая его на части.
func (n *Notifier) Notify(ctx context.Context, title, body string) error {
	chat := strconv.FormatInt(n.chatID, 10)
	for _, part := range SplitMessage(title + "\n" + body) {
		msg := tgbotapi.NewMessage(n.chatID, part)
		err := retry.Do(
			func() error {
				start := time.Now()
				_, err := n.sender.Send(msg)
				metrics.ObserveNetworkRequest("telegram_bot", "send_message", chat, start, err)
				if err != nil && !retryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			},
			retry.Context(ctx),
			retry.Attempts(n.attempts),
			retry.Delay(n.delay),
			retry.MaxDelay(5*time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				n.log.Debug().Err(err).Uint("attempt", attempt+1).Msg("telegram: повтор отправки")
			}),
		)
		if err != nil {
			return fmt.Errorf("отправка в telegram: %w", err)
		}
	}
	return nil
}

func retryable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hilal/internal/adapters/telegram"
	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
	"hilal/internal/usecase/dispatch"
	"hilal/internal/usecase/schedule"
)

// ScheduleReader отдаёт расписание для команд бота.
type ScheduleReader interface {
	Settings() domain.Settings
	Today(now time.Time) (domain.Schedule, error)
	Next(now time.Time) (schedule.Upcoming, schedule.Remaining, error)
}

// Handler отвечает на команды /today и /next.
type Handler struct {
	sender   telegram.Sender
	log      zerolog.Logger
	schedule ScheduleReader
	now      func() time.Time
}

// NewHandler создаёт обработчик.
func NewHandler(sender telegram.Sender, log zerolog.Logger, reader ScheduleReader) *Handler {
	return &Handler{
		sender:   sender,
		log:      log.With().Str("component", "bot").Logger(),
		schedule: reader,
		now:      time.Now,
	}
}

// HandleUpdate обрабатывает входящий апдейт.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	h.handleMessage(ctx, upd.Message)
}

func (h *Handler) handleMessage(_ context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	settings := h.schedule.Settings()
	switch {
	case strings.HasPrefix(text, "/today"):
		h.handleToday(chatID, settings)
	case strings.HasPrefix(text, "/next"):
		h.handleNext(chatID, settings)
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		h.reply(chatID, helpText(settings.Language))
	default:
		if strings.HasPrefix(text, "/") {
			h.reply(chatID, unknownText(settings.Language))
		}
	}
}

func (h *Handler) handleToday(chatID int64, settings domain.Settings) {
	sched, err := h.schedule.Today(h.now())
	if err != nil {
		h.log.Error().Err(err).Msg("bot: не удалось получить расписание")
		h.reply(chatID, failureText(settings.Language))
		return
	}
	h.reply(chatID, dispatch.FormatSchedule(sched, settings))
}

func (h *Handler) handleNext(chatID int64, settings domain.Settings) {
	next, left, err := h.schedule.Next(h.now())
	if err != nil {
		h.log.Error().Err(err).Msg("bot: не удалось найти ближайший намаз")
		h.reply(chatID, failureText(settings.Language))
		return
	}
	h.reply(chatID, dispatch.FormatUpcoming(next, left, settings))
}

func (h *Handler) reply(chatID int64, text string) {
	for _, part := range telegram.SplitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		start := time.Now()
		_, err := h.sender.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			h.log.Error().Err(err).Msg("bot: не удалось отправить сообщение")
			return
		}
	}
}

func helpText(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return "/today prayer times for today\n/next the next prayer and the time left"
	}
	return "/today مواقيت الصلاة لليوم\n/next الصلاة القادمة والوقت المتبقي"
}

func unknownText(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return "Unknown command. Use /help"
	}
	return "أمر غير معروف. استخدم /help"
}

func failureText(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return "Prayer times are not available right now"
	}
	return "المواقيت غير متاحة حاليا"
}

// Listen получает апдейты long polling до отмены контекста.
func Listen(ctx context.Context, api *tgbotapi.BotAPI, h *Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)
	h.log.Info().Msg("bot: приём команд запущен")
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			h.log.Info().Msg("bot: приём команд остановлен")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			h.HandleUpdate(ctx, upd)
		}
	}
}

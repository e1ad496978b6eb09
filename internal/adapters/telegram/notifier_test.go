package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type stubSender struct {
	errs  []error
	sent  []tgbotapi.MessageConfig
	calls int
}

func (s *stubSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return tgbotapi.Message{}, err
		}
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func newTestNotifier(sender Sender) *Notifier {
	n := NewNotifier(sender, 42, zerolog.Nop())
	n.delay = 0
	return n
}

func TestNotifierSendsTitleAndBody(t *testing.T) {
	sender := &stubSender{}
	if err := newTestNotifier(sender).Notify(context.Background(), "Let's Pray", "It's time for Asr prayer (15:54)"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != 42 || msg.Text != "Let's Pray\nIt's time for Asr prayer (15:54)" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestNotifierRetriesTransientErrors(t *testing.T) {
	sender := &stubSender{errs: []error{errors.New("connection reset"), &tgbotapi.Error{Code: 502, Message: "Bad Gateway"}}}
	if err := newTestNotifier(sender).Notify(context.Background(), "t", "b"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if sender.calls != 3 || len(sender.sent) != 1 {
		t.Fatalf("expected two retries, calls=%d sent=%d", sender.calls, len(sender.sent))
	}
}

func TestNotifierStopsOnClientErrors(t *testing.T) {
	sender := &stubSender{errs: []error{&tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}}
	err := newTestNotifier(sender).Notify(context.Background(), "t", "b")
	if err == nil || !strings.Contains(err.Error(), "Forbidden") {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("client errors must not be retried, calls=%d", sender.calls)
	}
}

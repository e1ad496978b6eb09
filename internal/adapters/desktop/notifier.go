package desktop

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner запускает внешнюю команду.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

// Notifier показывает системное уведомление через notify-send.
type Notifier struct {
	command string
	appName string
	run     Runner
}

// NewNotifier создаёт уведомитель. Пустая команда означает notify-send.
func NewNotifier(command string) *Notifier {
	if command == "" {
		command = "notify-send"
	}
	return &Notifier{command: command, appName: "hilal", run: execRunner}
}

// Name возвращает имя приёмника.
func (n *Notifier) Name() string { return "desktop" }

// Notify показывает уведомление.
func (n *Notifier) Notify(ctx context.Context, title, body string) error {
	return n.run(ctx, n.command, "--app-name", n.appName, "--urgency", "normal", title, body)
}

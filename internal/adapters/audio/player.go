package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"hilal/internal/domain"
)

// ErrAudioMissing возвращается, если файла азана нет в каталоге.
var ErrAudioMissing = errors.New("adhan audio file missing")

// Runner запускает проигрыватель и ждёт окончания воспроизведения.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Player проигрывает файлы азана внешним плеером, например mpg123 или ffplay.
type Player struct {
	command string
	args    []string
	dir     string
	run     Runner
	stat    func(string) (os.FileInfo, error)
}

// NewPlayer создаёт проигрыватель для каталога с записями.
func NewPlayer(command string, dir string, args ...string) *Player {
	if command == "" {
		command = "mpg123"
		if len(args) == 0 {
			args = []string{"-q"}
		}
	}
	return &Player{command: command, args: args, dir: dir, run: execRunner, stat: os.Stat}
}

// Name возвращает имя плеера для журналов и метрик.
func (p *Player) Name() string { return filepath.Base(p.command) }

// Path возвращает путь к файлу голоса. Неизвестные голоса заменяются голосом Мекки.
func (p *Player) Path(voice string) string {
	return filepath.Join(p.dir, domain.MuezzinFor(voice).AudioFile)
}

// Play воспроизводит азан выбранного муэдзина.
func (p *Player) Play(ctx context.Context, voice string) error {
	path := p.Path(voice)
	if _, err := p.stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrAudioMissing, path)
	}
	args := append(append([]string{}, p.args...), path)
	return p.run(ctx, p.command, args...)
}

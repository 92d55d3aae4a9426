package notify

import (
	ttsplayer "VoiceAssistant/internal/service/tts/player"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SoundNotifier проигрывает короткий сигнал перед началом записи.
type SoundNotifier struct {
	logger *zap.SugaredLogger
	path   string
	ply    ttsplayer.Player
}

// NewSoundNotifier создаёт нотификатор. Пустой путь — без звука.
// Относительный путь ищется сначала рядом с бинарём, затем от рабочей директории.
func NewSoundNotifier(logger *zap.SugaredLogger, path string, ply ttsplayer.Player) *SoundNotifier {
	return &SoundNotifier{logger: logger, path: resolve(path), ply: ply}
}

func resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		cand := filepath.Join(filepath.Dir(exe), path)
		if _, statErr := os.Stat(cand); statErr == nil {
			return cand
		}
	}
	return filepath.FromSlash(path)
}

// Enabled задан ли звук.
func (n *SoundNotifier) Enabled() bool { return n != nil && n.path != "" }

// PlayListen проигрывает сигнал "говорите". Ошибки логируются и возвращаются,
// вызывающий обычно их игнорирует.
func (n *SoundNotifier) PlayListen(ctx context.Context) error {
	if !n.Enabled() {
		return nil
	}
	if err := context.Cause(ctx); err != nil {
		return err
	}

	f, err := os.Open(n.path)
	if err != nil {
		n.logger.Warnw("Не удалось открыть звуковой файл уведомления", "path", n.path, "error", err)
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(n.path), "."))
	if ext == "" {
		ext = "mp3"
	}

	// Плеер закрывает файл сам.
	if err := n.ply.Play(ctx, ext, f); err != nil {
		n.logger.Warnw("Не удалось воспроизвести звуковое уведомление", "path", n.path, "error", err)
		return err
	}
	return nil
}

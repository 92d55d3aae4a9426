package yandex

import (
	"VoiceAssistant/internal/service/stt"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var _ stt.Recognizer = (*Recognizer)(nil)

// Recognizer распознаёт одну записанную фразу: открывает потоковую сессию,
// отправляет аудио чанками и ждёт финальную гипотезу.
type Recognizer struct {
	cfg     Config
	chunk   int
	timeout time.Duration
}

// NewRecognizer проверяет конфигурацию заранее, чтобы ошибка проявилась при старте.
func NewRecognizer(cfg Config, timeout time.Duration) (*Recognizer, error) {
	cfg, err := normalize(cfg)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// чанк ~50мс
	return &Recognizer{cfg: cfg, chunk: max(1, cfg.SampleRate/20), timeout: timeout}, nil
}

var errRecognizeTimeout = errors.New("yandex stt: recognition timeout")

func (r *Recognizer) Recognize(parent context.Context, samples []int16) (string, error) {
	ctx, cancel := context.WithTimeoutCause(parent, r.timeout, errRecognizeTimeout)
	defer cancel()

	client, err := New(r.cfg)
	if err != nil {
		return "", err
	}
	if err := client.Start(ctx); err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	for i := 0; i < len(samples); i += r.chunk {
		end := min(len(samples), i+r.chunk)
		if err := client.WritePCM16(samples[i:end]); err != nil {
			return "", fmt.Errorf("yandex stt: send audio: %w", err)
		}
	}
	if err := client.Finish(); err != nil {
		return "", fmt.Errorf("yandex stt: finish stream: %w", err)
	}

	// Последняя частичная гипотеза — запасной вариант, если финальной не будет.
	var partial string
	for {
		select {
		case <-ctx.Done():
			// Частичная гипотеза годится только при собственном таймауте, не при отмене снаружи.
			if parent.Err() == nil && partial != "" {
				return partial, nil
			}
			return "", context.Cause(ctx)
		case res, ok := <-client.Results():
			if !ok {
				if parent.Err() != nil {
					return "", context.Cause(parent)
				}
				if partial != "" {
					return partial, nil
				}
				return "", stt.ErrUnintelligible
			}
			text := strings.TrimSpace(res.Text)
			if res.Final && text != "" {
				return text, nil
			}
			if text != "" {
				partial = text
			}
		}
	}
}

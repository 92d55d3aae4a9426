package input

import (
	"VoiceAssistant/internal/service/stt"
	"context"
	"errors"

	"go.uber.org/zap"
)

// Transcriber запись и распознавание одной фразы, см. stt.Listener.
type Transcriber interface {
	Capture(ctx context.Context) ([]int16, error)
	Transcribe(ctx context.Context, samples []int16) (string, error)
}

// Cue звуковой сигнал перед записью.
type Cue interface {
	PlayListen(ctx context.Context) error
}

// VoiceSource слушает микрофон. Тишина, неразборчивая речь и сбой сервиса
// не ошибки: ход просто пропускается.
type VoiceSource struct {
	listener Transcriber
	out      Printer
	cue      Cue
	logger   *zap.SugaredLogger
}

// NewVoiceSource cue может быть nil.
func NewVoiceSource(listener Transcriber, out Printer, cue Cue, logger *zap.SugaredLogger) *VoiceSource {
	return &VoiceSource{listener: listener, out: out, cue: cue, logger: logger}
}

func (s *VoiceSource) Next(ctx context.Context) (Result, error) {
	if s.cue != nil {
		_ = s.cue.PlayListen(ctx)
	}
	s.out.Println("🎤 Listening... (speak now)")

	samples, err := s.listener.Capture(ctx)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return Result{}, cause
		}
		if errors.Is(err, stt.ErrWaitTimeout) {
			s.out.Println("⏱️ No speech detected")
			return Result{Status: Timeout}, nil
		}
		return s.failed(err), nil
	}

	s.out.Println("🔄 Processing speech...")
	text, err := s.listener.Transcribe(ctx, samples)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return Result{}, cause
		}
		if errors.Is(err, stt.ErrUnintelligible) {
			s.out.Println("❌ Could not understand speech")
			return Result{Status: Unintelligible}, nil
		}
		return s.failed(err), nil
	}
	if cause := context.Cause(ctx); cause != nil {
		return Result{}, cause
	}

	s.out.Println("👤 You said:", text)
	return Result{Text: text, Status: Heard}, nil
}

func (s *VoiceSource) failed(err error) Result {
	s.logger.Warnw("Speech recognition failed", "error", err)
	s.out.Println("❌ Speech recognition error:", err)
	return Result{Status: Failed, Err: err}
}

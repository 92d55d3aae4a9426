// Package output показывает ответы ассистента и, если доступно, озвучивает их.
package output

import (
	"VoiceAssistant/internal/service/tts"
	"context"
	"errors"

	"go.uber.org/zap"
)

// Printer куда печатается ответ.
type Printer interface {
	Println(a ...any)
}

// Speaker печатает каждый ответ и озвучивает его, если задан синтезатор.
// Ошибки озвучки не прерывают диалог: они логируются и показываются строкой.
type Speaker struct {
	out    Printer
	synth  tts.Synthesizer
	logger *zap.SugaredLogger
}

// NewSpeaker synth может быть nil — тогда только текст.
func NewSpeaker(out Printer, synth tts.Synthesizer, logger *zap.SugaredLogger) *Speaker {
	return &Speaker{out: out, synth: synth, logger: logger}
}

// Voiced озвучиваются ли ответы.
func (s *Speaker) Voiced() bool { return s.synth != nil }

func (s *Speaker) Speak(ctx context.Context, text string) {
	s.out.Println("🤖 Assistant: " + text)
	if s.synth == nil || text == "" {
		return
	}
	if err := s.synth.Synthesize(ctx, text); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warnw("Speech synthesis failed", "error", err)
		s.out.Println("❌ Speech error:", err)
	}
}

// Диагностика голосового ввода: одна фраза с микрофона (или из -stt-wav) и её расшифровка.
package main

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/stt"
	"VoiceAssistant/internal/service/voice"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := voice.SetupListener(cfg, sugar)
	if err != nil {
		sugar.Fatalw("Failed to init voice input", "error", err)
	}
	defer func() { _ = v.Close() }()

	fmt.Println("🎤 Listening... (speak now)")
	start := time.Now()
	samples, err := v.Listener.Capture(ctx)
	switch {
	case errors.Is(err, stt.ErrWaitTimeout):
		fmt.Println("⏱️ No speech detected")
		return
	case err != nil:
		sugar.Errorw("Capture failed", "error", err)
		return
	}
	sugar.Infow("Phrase captured",
		"seconds", float64(len(samples))/float64(cfg.SampleRate),
		"took", time.Since(start).String(),
	)

	text, err := v.Listener.Transcribe(ctx, samples)
	switch {
	case errors.Is(err, stt.ErrUnintelligible):
		fmt.Println("❌ Could not understand speech")
	case err != nil:
		sugar.Errorw("Recognition failed", "error", err)
	default:
		fmt.Println("👤 You said:", text)
	}
}

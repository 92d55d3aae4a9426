// Package voice собирает голосовую подсистему: захват, распознавание, синтез и сигнал.
package voice

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/notify"
	"VoiceAssistant/internal/service/stt"
	sttyandex "VoiceAssistant/internal/service/stt/yandex"
	"VoiceAssistant/internal/service/tts"
	"VoiceAssistant/internal/service/tts/gemini"
	"VoiceAssistant/internal/service/tts/google"
	"VoiceAssistant/internal/service/tts/player"
	ttsyandex "VoiceAssistant/internal/service/tts/yandex"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Voice готовая голосовая подсистема. Закрывать через Close.
type Voice struct {
	Listener *stt.Listener
	Synth    tts.Synthesizer
	Cue      *notify.SoundNotifier

	closers []func() error
}

// Setup инициализирует всё сразу: при любой ошибке уже открытые ресурсы освобождаются,
// а вызывающий переходит в текстовый режим.
func Setup(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*Voice, error) {
	v := &Voice{}
	ready := false
	defer func() {
		if !ready {
			_ = v.Close()
		}
	}()

	if err := v.initListener(cfg, logger); err != nil {
		return nil, err
	}

	ply := player.NewWithPercent(cfg.TTSVolume)
	synth, err := v.synthesizer(ctx, cfg, ply, logger)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}
	v.Synth = synth
	v.Cue = notify.NewSoundNotifier(logger, cfg.ListenSoundPath, ply)

	logger.Debugw("Voice initialized", "tts", cfg.TTSService, "wav", cfg.STTWavPath)
	ready = true
	return v, nil
}

// SetupListener только захват и распознавание, без синтеза.
func SetupListener(cfg *config.Config, logger *zap.SugaredLogger) (*Voice, error) {
	v := &Voice{}
	if err := v.initListener(cfg, logger); err != nil {
		_ = v.Close()
		return nil, err
	}
	return v, nil
}

func (v *Voice) initListener(cfg *config.Config, logger *zap.SugaredLogger) error {
	detector := stt.NewDetector(DetectorConfig(cfg))

	open, err := v.opener(cfg, detector.FrameSize())
	if err != nil {
		return err
	}

	rec, err := sttyandex.NewRecognizer(sttyandex.Config{
		Endpoint:   cfg.YandexSTT.Endpoint,
		APIKey:     cfg.YandexSTT.APIKey,
		Language:   cfg.YandexSTT.Language,
		SampleRate: cfg.SampleRate,
		EndJSON:    cfg.YandexSTT.EndJSON,
	}, cfg.YandexSTT.RecognizeTimeout)
	if err != nil {
		return fmt.Errorf("speech recognition: %w", err)
	}
	v.Listener = stt.NewListener(open, detector, rec, logger)
	return nil
}

// DetectorConfig параметры выделения фразы из конфигурации.
func DetectorConfig(cfg *config.Config) stt.DetectorConfig {
	return stt.DetectorConfig{
		SampleRate:          cfg.SampleRate,
		EnergyThreshold:     cfg.EnergyThreshold,
		CalibrationDuration: cfg.CalibrationDuration,
		PauseThreshold:      cfg.PauseThreshold,
		Timeout:             cfg.ListenTimeout,
		PhraseTimeLimit:     cfg.PhraseTimeLimit,
		PreRoll:             cfg.PauseThreshold / 2,
	}
}

func (v *Voice) opener(cfg *config.Config, frameSize int) (stt.Opener, error) {
	if path := cfg.STTWavPath; path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("wav input: %w", err)
		}
		return func() (stt.FrameSource, error) { return stt.OpenWAV(path, cfg.SampleRate) }, nil
	}

	terminate, err := stt.InitAudio()
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	v.closers = append(v.closers, terminate)
	return func() (stt.FrameSource, error) { return stt.OpenMic(cfg.SampleRate, frameSize) }, nil
}

func (v *Voice) synthesizer(ctx context.Context, cfg *config.Config, ply player.Player, logger *zap.SugaredLogger) (tts.Synthesizer, error) {
	switch cfg.TTSService {
	case config.TTSGoogle:
		c, err := google.New(ctx, cfg.GoogleTTS, ply, logger)
		if err != nil {
			return nil, err
		}
		v.closers = append(v.closers, c.Close)
		return c, nil
	case config.TTSYandex:
		c, err := ttsyandex.New(cfg.YandexTTS, ply, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.TTSGemini:
		c, err := gemini.New(ctx, cfg.GeminiTTS, ply, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown tts service %q", cfg.TTSService)
}

// Close освобождает ресурсы в обратном порядке.
func (v *Voice) Close() error {
	if v == nil {
		return nil
	}
	var errs []error
	for i := len(v.closers) - 1; i >= 0; i-- {
		if err := v.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	v.closers = nil
	return errors.Join(errs...)
}

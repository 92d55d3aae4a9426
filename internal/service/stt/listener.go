package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnintelligible речь записана, но распознать её не удалось.
var ErrUnintelligible = errors.New("speech was not intelligible")

// Recognizer сервис распознавания: аудио PCM16 mono на входе, текст на выходе.
// Пустой результат должен возвращаться как ErrUnintelligible.
type Recognizer interface {
	Recognize(ctx context.Context, samples []int16) (string, error)
}

// Opener открывает источник звука на время одной фразы.
type Opener func() (FrameSource, error)

// Listener записывает одну фразу и распознаёт её.
type Listener struct {
	open     Opener
	detector *Detector
	rec      Recognizer
	logger   *zap.SugaredLogger
}

func NewListener(open Opener, detector *Detector, rec Recognizer, logger *zap.SugaredLogger) *Listener {
	return &Listener{open: open, detector: detector, rec: rec, logger: logger}
}

// Capture открывает источник, калибруется по фону и ждёт фразу.
// Ограничена по времени: Timeout на начало речи и PhraseTimeLimit на саму фразу.
func (l *Listener) Capture(ctx context.Context) ([]int16, error) {
	src, err := l.open()
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			l.logger.Warnw("Failed to close audio source", "error", cerr)
		}
	}()

	if err := l.detector.Calibrate(src); err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}
	l.logger.Debugw("Noise calibration done", "threshold", l.detector.Threshold())

	start := time.Now()
	samples, err := l.detector.Listen(ctx, src)
	if err != nil {
		return nil, err
	}
	l.logger.Debugw("Phrase captured", "samples", len(samples), "took", time.Since(start).String())
	return samples, nil
}

// Transcribe распознаёт фразу; результат в нижнем регистре.
func (l *Listener) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if len(samples) == 0 {
		return "", ErrUnintelligible
	}
	text, err := l.rec.Recognize(ctx, samples)
	if err != nil {
		return "", err
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

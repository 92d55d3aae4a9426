package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat формат нельзя проиграть напрямую.
var ErrUnsupportedFormat = errors.New("unsupported format for direct playback; use mp3 or wav")

// Player воспроизводит аудио потоком в зависимости от формата.
// Отмена ctx обрывает воспроизведение.
type Player interface {
	Play(ctx context.Context, format string, r io.ReadCloser) error
}

// Default реализует Player и поддерживает mp3 и wav.
// Воспроизведение последовательное: одновременно играет только одна фраза.
type Default struct {
	mu       sync.Mutex
	volumeDB float64
	silent   bool
}

// New создаёт плеер без изменения громкости (0 dB).
func New() *Default { return &Default{} }

// NewWithVolume создаёт плеер с предустановленной громкостью в dB (отрицательные — тише).
func NewWithVolume(db float64) *Default { return &Default{volumeDB: db} }

// NewWithPercent громкость в процентах 0-100, 100 — без изменений, 0 — тишина.
func NewWithPercent(v int) *Default {
	return &Default{volumeDB: VolumeDB(v), silent: v <= 0}
}

// VolumeDB переводит проценты в громкость effects.Volume (Base 2): каждые 5% это шаг в одну ступень.
func VolumeDB(v int) float64 {
	v = max(0, min(100, v))
	return float64(v-100) / 5
}

func (d *Default) Play(ctx context.Context, format string, r io.ReadCloser) error {
	if err := context.Cause(ctx); err != nil {
		_ = r.Close()
		return err
	}
	var (
		streamer beep.StreamSeekCloser
		f        beep.Format
		err      error
	)
	switch strings.ToLower(format) {
	case "wav":
		streamer, f, err = wav.Decode(r)
	case "mp3":
		streamer, f, err = mp3.Decode(r)
	default:
		_ = r.Close()
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		_ = r.Close()
		return err
	}
	defer streamer.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := speaker.Init(f.SampleRate, f.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	vol := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   d.volumeDB,
		Silent:   d.silent,
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return context.Cause(ctx)
	}
}

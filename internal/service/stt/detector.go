package stt

import (
	"context"
	"errors"
	"io"
	"math"
	"time"
)

// ErrWaitTimeout речь не началась за отведённое время.
var ErrWaitTimeout = errors.New("no speech detected before timeout")

// DetectorConfig параметры выделения фразы по энергии сигнала.
type DetectorConfig struct {
	SampleRate          int
	FrameDuration       time.Duration // Длина кадра анализа
	EnergyThreshold     float64       // Нижняя граница порога речи (RMS)
	DynamicRatio        float64       // Порог = фоновый шум * DynamicRatio
	CalibrationDuration time.Duration
	PauseThreshold      time.Duration // Тишина, после которой фраза считается законченной
	Timeout             time.Duration // Сколько ждём начала речи
	PhraseTimeLimit     time.Duration
	PreRoll             time.Duration // Сколько тишины перед речью сохранить в начале фразы
}

// Detector калибруется по фоновому шуму и вырезает одну фразу из потока кадров.
// Время считается по числу прочитанных сэмплов, а не по часам.
type Detector struct {
	cfg       DetectorConfig
	threshold float64
}

func NewDetector(cfg DetectorConfig) *Detector {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.FrameDuration <= 0 {
		cfg.FrameDuration = 30 * time.Millisecond
	}
	if cfg.DynamicRatio <= 0 {
		cfg.DynamicRatio = 1.5
	}
	if cfg.PauseThreshold <= 0 {
		cfg.PauseThreshold = 800 * time.Millisecond
	}
	if cfg.PreRoll < 0 {
		cfg.PreRoll = 0
	}
	return &Detector{cfg: cfg, threshold: cfg.EnergyThreshold}
}

// FrameSize количество сэмплов в одном кадре.
func (d *Detector) FrameSize() int {
	return max(1, int(int64(d.cfg.SampleRate)*int64(d.cfg.FrameDuration)/int64(time.Second)))
}

// Threshold текущий порог речи.
func (d *Detector) Threshold() float64 { return d.threshold }

// frames переводит длительность в число кадров (не меньше 1).
func (d *Detector) frames(dur time.Duration) int {
	return max(1, int(math.Ceil(float64(dur)/float64(d.cfg.FrameDuration))))
}

// Calibrate слушает фон CalibrationDuration и поднимает порог над уровнем шума.
func (d *Detector) Calibrate(src FrameSource) error {
	if d.cfg.CalibrationDuration <= 0 {
		return nil
	}
	buf := make([]int16, d.FrameSize())
	var sum float64
	n := 0
	for range d.frames(d.cfg.CalibrationDuration) {
		if err := src.Read(buf); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		sum += rms(buf)
		n++
	}
	d.threshold = d.cfg.EnergyThreshold
	if n > 0 {
		d.threshold = max(d.cfg.EnergyThreshold, sum/float64(n)*d.cfg.DynamicRatio)
	}
	return nil
}

// Listen ждёт начала речи не дольше Timeout и возвращает фразу, закончившуюся паузой,
// лимитом длины или концом потока.
func (d *Detector) Listen(ctx context.Context, src FrameSource) ([]int16, error) {
	size := d.FrameSize()
	waitLimit := d.frames(d.cfg.Timeout)
	phraseLimit := d.frames(d.cfg.PhraseTimeLimit)
	pauseLimit := d.frames(d.cfg.PauseThreshold)
	preRoll := 0
	if d.cfg.PreRoll > 0 {
		preRoll = d.frames(d.cfg.PreRoll)
	}

	var (
		pending  [][]int16 // тишина перед речью
		phrase   []int16
		speaking bool
		waited   int
		spoken   int
		silent   int
	)
	for {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}
		frame := make([]int16, size)
		if err := src.Read(frame); err != nil {
			if errors.Is(err, io.EOF) {
				if speaking {
					return trimTail(phrase, silent*size), nil
				}
				return nil, ErrWaitTimeout
			}
			return nil, err
		}
		loud := rms(frame) > d.threshold

		if !speaking {
			if !loud {
				waited++
				if d.cfg.Timeout > 0 && waited >= waitLimit {
					return nil, ErrWaitTimeout
				}
				if preRoll > 0 {
					pending = append(pending, frame)
					if len(pending) > preRoll {
						pending = pending[1:]
					}
				}
				continue
			}
			speaking = true
			for _, p := range pending {
				phrase = append(phrase, p...)
			}
			pending = nil
		}

		phrase = append(phrase, frame...)
		spoken++
		if loud {
			silent = 0
		} else {
			silent++
			if silent >= pauseLimit {
				return trimTail(phrase, silent*size), nil
			}
		}
		if d.cfg.PhraseTimeLimit > 0 && spoken >= phraseLimit {
			return phrase, nil
		}
	}
}

func trimTail(phrase []int16, n int) []int16 {
	return phrase[:max(0, len(phrase)-n)]
}

func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

package stt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

// FrameSource источник PCM16 mono. Read заполняет dst целиком; в конце потока возвращает io.EOF.
type FrameSource interface {
	Read(dst []int16) error
	Close() error
}

// InitAudio инициализирует PortAudio. Вызывается один раз на процесс; возвращает функцию освобождения.
func InitAudio() (func() error, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	return portaudio.Terminate, nil
}

// Mic захват с микрофона по умолчанию через PortAudio.
type Mic struct {
	stream *portaudio.Stream
	buf    []int16
}

// OpenMic открывает и запускает входной поток: 1 канал, int16, sampleRate Гц, кадр frameSize сэмплов.
func OpenMic(sampleRate, frameSize int) (*Mic, error) {
	if frameSize <= 0 {
		frameSize = 480
	}
	m := &Mic{buf: make([]int16, frameSize)}
	s, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(m.buf), m.buf)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := s.Start(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	m.stream = s
	return m, nil
}

// Read читает из внутреннего буфера PortAudio столько раз, сколько нужно для len(dst) сэмплов.
func (m *Mic) Read(dst []int16) error {
	off := 0
	for off < len(dst) {
		if err := m.stream.Read(); err != nil {
			return err
		}
		off += copy(dst[off:], m.buf)
	}
	return nil
}

func (m *Mic) Close() error {
	return errors.Join(m.stream.Stop(), m.stream.Close())
}

// WAVSource отдаёт WAV-файл (16-bit mono) кадрами, как если бы это был микрофон.
type WAVSource struct {
	samples []int16
	pos     int
}

// OpenWAV читает файл целиком и проверяет формат.
func OpenWAV(path string, expectedRate int) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("wav: invalid or unsupported file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, errors.New("wav: empty buffer or missing format")
	}
	if buf.Format.NumChannels != 1 {
		return nil, fmt.Errorf("wav: mono required, got %d channels", buf.Format.NumChannels)
	}
	if expectedRate > 0 && buf.Format.SampleRate != expectedRate {
		return nil, fmt.Errorf("wav: %d Hz required, got %d Hz", expectedRate, buf.Format.SampleRate)
	}
	if buf.SourceBitDepth != 16 {
		return nil, fmt.Errorf("wav: 16-bit PCM required, got %d-bit", buf.SourceBitDepth)
	}
	return NewSliceSource(toInt16(buf.Data)), nil
}

// NewSliceSource источник поверх готовых сэмплов.
func NewSliceSource(samples []int16) *WAVSource {
	return &WAVSource{samples: samples}
}

// Read отдаёт следующий кадр; неполный последний кадр добивается тишиной.
func (w *WAVSource) Read(dst []int16) error {
	if w.pos >= len(w.samples) {
		return io.EOF
	}
	n := copy(dst, w.samples[w.pos:])
	clear(dst[n:])
	w.pos += n
	return nil
}

func (w *WAVSource) Close() error { return nil }

func toInt16(src []int) []int16 {
	dst := make([]int16, len(src))
	for i, v := range src {
		dst[i] = int16(max(-32768, min(32767, v)))
	}
	return dst
}

package stt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"
)

type fakeRecognizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []int16) (string, error) {
	f.calls++
	return f.text, f.err
}

type closeCounter struct {
	*WAVSource
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestTranscribe_LowercasesAndTrims(t *testing.T) {
	rec := &fakeRecognizer{text: "  Hello World \n"}
	l := NewListener(nil, testDetector(nil), rec, zap.NewNop().Sugar())
	got, err := l.Transcribe(context.Background(), []int16{1, 2, 3})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestTranscribe_EmptyIsUnintelligible(t *testing.T) {
	rec := &fakeRecognizer{text: "   "}
	l := NewListener(nil, testDetector(nil), rec, zap.NewNop().Sugar())
	if _, err := l.Transcribe(context.Background(), []int16{1}); !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible, got %v", err)
	}
	if _, err := l.Transcribe(context.Background(), nil); !errors.Is(err, ErrUnintelligible) {
		t.Fatalf("expected ErrUnintelligible for no audio, got %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer must not be called without audio, calls=%d", rec.calls)
	}
}

func TestTranscribe_ServiceErrorPassesThrough(t *testing.T) {
	boom := errors.New("service down")
	l := NewListener(nil, testDetector(nil), &fakeRecognizer{err: boom}, zap.NewNop().Sugar())
	if _, err := l.Transcribe(context.Background(), []int16{1}); !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestCapture_ClosesSource(t *testing.T) {
	src := &closeCounter{WAVSource: NewSliceSource(signal([2]int{1000, 10}, [2]int{0, 20}))}
	l := NewListener(func() (FrameSource, error) { return src, nil }, testDetector(nil), nil, zap.NewNop().Sugar())

	got, err := l.Capture(context.Background())
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("phrase length: got %d want 100", len(got))
	}
	if src.closed != 1 {
		t.Fatalf("source closed %d times", src.closed)
	}
}

func TestCapture_OpenError(t *testing.T) {
	boom := errors.New("no device")
	l := NewListener(func() (FrameSource, error) { return nil, boom }, testDetector(nil), nil, zap.NewNop().Sugar())
	if _, err := l.Capture(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func writeWAV(t *testing.T, rate, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenWAV(t *testing.T) {
	data := make([]int, 1600)
	for i := range data {
		data[i] = 1000
	}
	path := writeWAV(t, 16000, 1, data)

	src, err := OpenWAV(path, 16000)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	frame := make([]int16, 480)
	total := 0
	for src.Read(frame) == nil {
		total += len(frame)
	}
	if total != 1920 { // 4 кадра, последний добит тишиной
		t.Fatalf("read %d samples", total)
	}

	if _, err := OpenWAV(path, 8000); err == nil {
		t.Fatalf("expected sample rate mismatch")
	}
	stereo := writeWAV(t, 16000, 2, make([]int, 64))
	if _, err := OpenWAV(stereo, 16000); err == nil {
		t.Fatalf("expected mono requirement")
	}
	if _, err := OpenWAV(filepath.Join(t.TempDir(), "missing.wav"), 0); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSliceSource_PadsLastFrame(t *testing.T) {
	src := NewSliceSource([]int16{1, 2, 3})
	frame := []int16{9, 9, 9, 9, 9}
	if err := src.Read(frame); err != nil {
		t.Fatal(err)
	}
	if frame[2] != 3 || frame[3] != 0 || frame[4] != 0 {
		t.Fatalf("unexpected frame %v", frame)
	}
	if err := src.Read(frame); err == nil {
		t.Fatalf("expected EOF")
	}
}

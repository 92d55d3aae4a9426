package player

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type trackingReader struct {
	io.Reader
	closed bool
}

func (t *trackingReader) Close() error {
	t.closed = true
	return nil
}

func TestVolumeDB(t *testing.T) {
	cases := map[int]float64{100: 0, 90: -2, 50: -10, 0: -20, 150: 0, -5: -20}
	for in, want := range cases {
		if got := VolumeDB(in); got != want {
			t.Fatalf("VolumeDB(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithPercent(t *testing.T) {
	p := NewWithPercent(90)
	if p.volumeDB != -2 || p.silent {
		t.Fatalf("unexpected player %+v", p)
	}
	if !NewWithPercent(0).silent {
		t.Fatalf("zero volume must be silent")
	}
}

func TestPlay_UnsupportedFormat(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("data")}
	err := New().Play(context.Background(), "ogg", r)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !r.closed {
		t.Fatalf("reader must be closed")
	}
}

func TestPlay_BrokenWAV(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("definitely not riff")}
	if err := New().Play(context.Background(), "WAV", r); err == nil {
		t.Fatalf("expected decode error")
	}
	if !r.closed {
		t.Fatalf("reader must be closed on decode error")
	}
}

func TestPlay_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &trackingReader{Reader: strings.NewReader("data")}
	if err := New().Play(ctx, "mp3", r); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !r.closed {
		t.Fatalf("reader must be closed")
	}
}

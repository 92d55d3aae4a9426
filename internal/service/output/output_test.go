package output

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type bufPrinter struct{ lines []string }

func (b *bufPrinter) Println(a ...any) { b.lines = append(b.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n")) }

type fakeSynth struct {
	texts []string
	err   error
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func TestSpeak_TextOnly(t *testing.T) {
	out := &bufPrinter{}
	s := NewSpeaker(out, nil, zap.NewNop().Sugar())
	s.Speak(context.Background(), "Hi there!")
	if len(out.lines) != 1 || out.lines[0] != "🤖 Assistant: Hi there!" {
		t.Fatalf("unexpected output %q", out.lines)
	}
	if s.Voiced() {
		t.Fatalf("speaker without synthesizer must not be voiced")
	}
}

func TestSpeak_SynthesizesAfterPrinting(t *testing.T) {
	out := &bufPrinter{}
	synth := &fakeSynth{}
	NewSpeaker(out, synth, zap.NewNop().Sugar()).Speak(context.Background(), "Hello")
	if len(synth.texts) != 1 || synth.texts[0] != "Hello" {
		t.Fatalf("synthesizer got %q", synth.texts)
	}
	if len(out.lines) != 1 {
		t.Fatalf("unexpected output %q", out.lines)
	}
}

func TestSpeak_SynthesisFailureIsReported(t *testing.T) {
	out := &bufPrinter{}
	synth := &fakeSynth{err: errors.New("no audio device")}
	NewSpeaker(out, synth, zap.NewNop().Sugar()).Speak(context.Background(), "Hello")
	if len(out.lines) != 2 || out.lines[1] != "❌ Speech error: no audio device" {
		t.Fatalf("unexpected output %q", out.lines)
	}
}

func TestSpeak_CancelledSynthesisIsSilent(t *testing.T) {
	out := &bufPrinter{}
	synth := &fakeSynth{err: fmt.Errorf("post: %w", context.Canceled)}
	NewSpeaker(out, synth, zap.NewNop().Sugar()).Speak(context.Background(), "Hello")
	if len(out.lines) != 1 {
		t.Fatalf("cancellation must not be reported, got %q", out.lines)
	}
}

package input

import (
	"context"
	"strings"
)

// TextSource читает реплику с терминала.
type TextSource struct {
	in     LineReader
	prompt string
}

func NewTextSource(in LineReader, prompt string) *TextSource {
	return &TextSource{in: in, prompt: prompt}
}

func (s *TextSource) Next(ctx context.Context) (Result, error) {
	line, err := s.in.ReadLine(ctx, s.prompt)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: strings.TrimSpace(line), Status: Heard}, nil
}

// Selector перед каждым ходом спрашивает, говорить или печатать.
type Selector struct {
	in    LineReader
	out   Printer
	voice Source
	text  Source
}

func NewSelector(in LineReader, out Printer, voice, text Source) *Selector {
	return &Selector{in: in, out: out, voice: voice, text: text}
}

func (s *Selector) Next(ctx context.Context) (Result, error) {
	s.out.Println("\nChoose input method:\n1. 🎤 Voice\n2. 💬 Text")
	choice, err := s.in.ReadLine(ctx, "Your choice (1/2): ")
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(choice) == "1" {
		return s.voice.Next(ctx)
	}
	return s.text.Next(ctx)
}

// Package input получает одну реплику пользователя за ход: с клавиатуры или голосом.
package input

import (
	"context"
	"strings"
)

// Status чем закончилась попытка получить реплику.
type Status int

const (
	Heard Status = iota
	Timeout
	Unintelligible
	Failed
)

func (s Status) String() string {
	switch s {
	case Heard:
		return "heard"
	case Timeout:
		return "timeout"
	case Unintelligible:
		return "unintelligible"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result одна реплика. Если Absent, ход пропускается без обращения к модели.
type Result struct {
	Text   string
	Status Status
	Err    error // только для Failed
}

func (r Result) Absent() bool {
	return r.Status != Heard || strings.TrimSpace(r.Text) == ""
}

// Source источник реплик. Ошибка возвращается только когда ввод больше невозможен
// (отмена контекста, закрытый терминал); всё остальное — Result с нужным Status.
type Source interface {
	Next(ctx context.Context) (Result, error)
}

// LineReader построчный ввод, см. console.Console.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Printer вывод статусных строк.
type Printer interface {
	Println(a ...any)
}

const (
	textPrompt  = "\n👤 You: "
	typedPrompt = "👤 Type your message: "
)

// New собирает источник: без голоса — только текст, с голосом — выбор способа на каждом ходу.
func New(in LineReader, out Printer, voice Source) Source {
	if voice == nil {
		return NewTextSource(in, textPrompt)
	}
	return NewSelector(in, out, voice, NewTextSource(in, typedPrompt))
}

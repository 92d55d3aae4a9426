// Package session ведёт разговор: приветствие, цикл ходов и завершение.
package session

import (
	"VoiceAssistant/internal/command"
	"VoiceAssistant/internal/console"
	"VoiceAssistant/internal/service/input"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Тексты, которые ассистент произносит сам.
const (
	Greeting = "Hello! I'm your AI assistant. How can I help you today?"
	Farewell = "Goodbye! It was great chatting with you!"
	Recovery = "I encountered an error. Let's try again."
)

// State состояние цикла.
type State int

const (
	Idle State = iota
	AwaitingInput
	Routing
	AwaitingModel
	Responding
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingInput:
		return "awaiting-input"
	case Routing:
		return "routing"
	case AwaitingModel:
		return "awaiting-model"
	case Responding:
		return "responding"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// OutputSink показывает и озвучивает ответ, см. output.Speaker.
type OutputSink interface {
	Speak(ctx context.Context, text string)
}

// Interpreter распознаёт служебные команды.
type Interpreter interface {
	Interpret(input string) command.Signal
}

// Responder получает ответ модели; ошибки уже превращены в текст извинения.
type Responder interface {
	Respond(ctx context.Context, input string) string
}

// Display служебные строки, которые не озвучиваются.
type Display interface {
	Println(a ...any)
}

// Deps коллабораторы цикла.
type Deps struct {
	Input     input.Source
	Output    OutputSink
	Commands  Interpreter
	Dialogue  Responder
	Display   Display
	VoiceMode bool
}

// Loop однопоточный цикл разговора. Ходы выполняются строго по одному.
type Loop struct {
	deps   Deps
	id     string
	state  State
	logger *zap.SugaredLogger

	// OnTransition вызывается при каждой смене состояния (для диагностики и тестов).
	OnTransition func(from, to State)
}

func New(deps Deps, logger *zap.SugaredLogger) *Loop {
	id := uuid.NewString()
	return &Loop{deps: deps, id: id, state: Idle, logger: logger.With("session", id)}
}

func (l *Loop) ID() string { return l.id }

func (l *Loop) State() State { return l.state }

func (l *Loop) enter(s State) {
	if s == l.state {
		return
	}
	from := l.state
	l.state = s
	l.logger.Debugw("State changed", "from", from.String(), "to", s.String())
	if l.OnTransition != nil {
		l.OnTransition(from, s)
	}
}

// Run показывает баннер, здоровается и крутит ходы до команды выхода,
// отмены ctx или конца ввода. Ошибки отдельных ходов наружу не выходят.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Infow("Session started", "voice", l.deps.VoiceMode)
	l.banner()
	l.deps.Output.Speak(ctx, Greeting)

	for {
		if l.turn(ctx) {
			break
		}
	}
	l.enter(Terminated)
	l.logger.Infow("Session finished")
}

// turn один ход. Возвращает true, когда разговор окончен.
func (l *Loop) turn(ctx context.Context) (done bool) {
	defer func() {
		if r := recover(); r != nil {
			l.recoverTurn(ctx, fmt.Errorf("panic: %v", r))
			done = l.interrupted(ctx, nil)
		}
	}()

	if l.interrupted(ctx, nil) {
		return true
	}

	l.enter(AwaitingInput)
	res, err := l.deps.Input.Next(ctx)
	if err != nil {
		if l.interrupted(ctx, err) {
			return true
		}
		l.recoverTurn(ctx, err)
		return false
	}
	// Реплика могла прийти одновременно с Ctrl+C: выполнять её уже нельзя.
	if l.interrupted(ctx, nil) {
		return true
	}
	if res.Absent() {
		l.logger.Debugw("No input this turn", "status", res.Status.String())
		return false
	}

	l.enter(Routing)
	sig := l.deps.Commands.Interpret(res.Text)
	switch sig.Kind {
	case command.Terminate:
		l.enter(Responding)
		l.deps.Output.Speak(ctx, Farewell)
		return true
	case command.Handled:
		l.enter(Responding)
		l.deps.Output.Speak(ctx, sig.Text)
		return false
	}

	l.deps.Display.Println("\n🤔 Thinking...")
	l.enter(AwaitingModel)
	reply := l.deps.Dialogue.Respond(ctx, sig.Text)
	if l.interrupted(ctx, nil) {
		return true
	}

	l.enter(Responding)
	l.deps.Output.Speak(ctx, reply)
	return false
}

// interrupted Ctrl+C или закрытый ввод: прощаемся без озвучки.
func (l *Loop) interrupted(ctx context.Context, err error) bool {
	if ctx.Err() == nil && !errors.Is(err, console.ErrClosed) {
		return false
	}
	l.logger.Infow("Session interrupted", "cause", context.Cause(ctx), "error", err)
	l.deps.Display.Println("\n\n👋 Goodbye!")
	return true
}

func (l *Loop) recoverTurn(ctx context.Context, err error) {
	l.logger.Errorw("Turn failed", "state", l.state.String(), "error", err)
	l.deps.Display.Println("\n❌ Error:", err)
	l.enter(Responding)
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorw("Recovery message failed", "panic", r)
		}
	}()
	l.deps.Output.Speak(ctx, Recovery)
}

func (l *Loop) banner() {
	line := strings.Repeat("=", 50)
	d := l.deps.Display
	d.Println("\n" + line)
	d.Println("🤖 AI ASSISTANT STARTED")
	d.Println(line)
	if l.deps.VoiceMode {
		d.Println("🎤 Voice mode available - you can speak or type")
	} else {
		d.Println("💬 Text mode only")
	}
	d.Println("📝 Say 'help' for commands or 'exit' to quit")
	d.Println(line)
}

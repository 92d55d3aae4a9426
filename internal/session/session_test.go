package session

import (
	"VoiceAssistant/internal/command"
	"VoiceAssistant/internal/console"
	"VoiceAssistant/internal/service/input"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type step struct {
	res input.Result
	err error
}

func heard(text string) step { return step{res: input.Result{Text: text, Status: input.Heard}} }

type scriptedInput struct {
	steps []step
	calls int
	// hook вызывается перед отдачей шага с этим индексом.
	hook map[int]func()
}

func (s *scriptedInput) Next(context.Context) (input.Result, error) {
	i := s.calls
	s.calls++
	if h := s.hook[i]; h != nil {
		h()
	}
	if i >= len(s.steps) {
		return input.Result{}, console.ErrClosed
	}
	return s.steps[i].res, s.steps[i].err
}

type recordingSink struct{ spoken []string }

func (r *recordingSink) Speak(_ context.Context, text string) { r.spoken = append(r.spoken, text) }

type countingInterpreter struct {
	inner *command.Interpreter
	calls int
}

func (c *countingInterpreter) Interpret(in string) command.Signal {
	c.calls++
	return c.inner.Interpret(in)
}

type nopClearer struct{ cleared int }

func (n *nopClearer) Clear() { n.cleared++ }

type fakeDialogue struct {
	reply  string
	panics bool
	inputs []string
	onCall func()
}

func (f *fakeDialogue) Respond(_ context.Context, in string) string {
	f.inputs = append(f.inputs, in)
	if f.onCall != nil {
		f.onCall()
	}
	if f.panics {
		panic("boom")
	}
	return f.reply
}

type bufDisplay struct{ lines []string }

func (b *bufDisplay) Println(a ...any) { b.lines = append(b.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n")) }

func (b *bufDisplay) contains(s string) bool {
	for _, l := range b.lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

type harness struct {
	in      *scriptedInput
	out     *recordingSink
	cmds    *countingInterpreter
	clearer *nopClearer
	dlg     *fakeDialogue
	display *bufDisplay
	loop    *Loop
	states  []State
}

func newHarness(steps ...step) *harness {
	h := &harness{
		in:      &scriptedInput{steps: steps, hook: map[int]func(){}},
		out:     &recordingSink{},
		clearer: &nopClearer{},
		dlg:     &fakeDialogue{reply: "Hi there!"},
		display: &bufDisplay{},
	}
	h.cmds = &countingInterpreter{inner: command.NewInterpreter(h.clearer)}
	h.loop = New(Deps{
		Input:    h.in,
		Output:   h.out,
		Commands: h.cmds,
		Dialogue: h.dlg,
		Display:  h.display,
	}, zap.NewNop().Sugar())
	h.loop.OnTransition = func(_, to State) { h.states = append(h.states, to) }
	return h
}

func (h *harness) entered(s State) bool {
	for _, st := range h.states {
		if st == s {
			return true
		}
	}
	return false
}

func TestRun_GreetsAndAnswers(t *testing.T) {
	h := newHarness(heard("Hello"))
	h.loop.Run(context.Background())

	want := []string{Greeting, "Hi there!"}
	if fmt.Sprint(h.out.spoken) != fmt.Sprint(want) {
		t.Fatalf("spoken: got %q want %q", h.out.spoken, want)
	}
	if len(h.dlg.inputs) != 1 || h.dlg.inputs[0] != "Hello" {
		t.Fatalf("dialogue got %q", h.dlg.inputs)
	}
	if !h.display.contains("Thinking...") || !h.display.contains("👋 Goodbye!") {
		t.Fatalf("unexpected display %q", h.display.lines)
	}
	if h.loop.State() != Terminated {
		t.Fatalf("state: got %v", h.loop.State())
	}
	wantStates := []State{AwaitingInput, Routing, AwaitingModel, Responding, AwaitingInput, Terminated}
	if fmt.Sprint(h.states) != fmt.Sprint(wantStates) {
		t.Fatalf("transitions: got %v want %v", h.states, wantStates)
	}
}

func TestRun_AbsentInputDoesNoWork(t *testing.T) {
	h := newHarness(
		step{res: input.Result{Status: input.Timeout}},
		step{res: input.Result{Status: input.Unintelligible}},
		step{res: input.Result{Status: input.Failed, Err: errors.New("HTTP 500")}},
		heard("   "),
	)
	h.loop.Run(context.Background())

	if h.cmds.calls != 0 || len(h.dlg.inputs) != 0 {
		t.Fatalf("absent input reached interpreter=%d dialogue=%d", h.cmds.calls, len(h.dlg.inputs))
	}
	if len(h.out.spoken) != 1 || h.out.spoken[0] != Greeting {
		t.Fatalf("only the greeting should be spoken, got %q", h.out.spoken)
	}
	if h.entered(Routing) || h.entered(AwaitingModel) {
		t.Fatalf("loop left AwaitingInput on absent input: %v", h.states)
	}
	if h.in.calls != 5 {
		t.Fatalf("input should be re-requested after each absent result, calls=%d", h.in.calls)
	}
}

func TestRun_ExitSpeaksFarewellAndStops(t *testing.T) {
	h := newHarness(heard("ok bye now"), heard("never read"))
	h.loop.Run(context.Background())

	if len(h.out.spoken) != 2 || h.out.spoken[1] != Farewell {
		t.Fatalf("spoken: %q", h.out.spoken)
	}
	if h.in.calls != 1 {
		t.Fatalf("input read after exit, calls=%d", h.in.calls)
	}
	if len(h.dlg.inputs) != 0 {
		t.Fatalf("exit must not reach the model")
	}
	if h.display.contains("👋 Goodbye!") {
		t.Fatalf("exit command is not an interrupt")
	}
}

func TestRun_HandledCommandsSkipModel(t *testing.T) {
	h := newHarness(heard("help"), heard("please clear"), heard("What is Go?"))
	h.loop.Run(context.Background())

	want := []string{Greeting, command.HelpText, command.ClearedText, "Hi there!"}
	if fmt.Sprint(h.out.spoken) != fmt.Sprint(want) {
		t.Fatalf("spoken: got %q", h.out.spoken)
	}
	if h.clearer.cleared != 1 {
		t.Fatalf("history cleared %d times", h.clearer.cleared)
	}
	if len(h.dlg.inputs) != 1 || h.dlg.inputs[0] != "What is Go?" {
		t.Fatalf("dialogue got %q", h.dlg.inputs)
	}
}

func TestRun_PanicIsRecovered(t *testing.T) {
	h := newHarness(heard("first"), heard("help"))
	h.dlg.panics = true
	h.loop.Run(context.Background())

	if !h.display.contains("❌ Error: panic: boom") {
		t.Fatalf("panic not reported: %q", h.display.lines)
	}
	want := []string{Greeting, Recovery, command.HelpText}
	if fmt.Sprint(h.out.spoken) != fmt.Sprint(want) {
		t.Fatalf("spoken: got %q", h.out.spoken)
	}
}

func TestRun_InputErrorIsRecovered(t *testing.T) {
	h := newHarness(step{err: errors.New("terminal glitch")}, heard("hi"))
	h.loop.Run(context.Background())

	if !h.display.contains("❌ Error: terminal glitch") {
		t.Fatalf("error not reported: %q", h.display.lines)
	}
	if len(h.dlg.inputs) != 1 {
		t.Fatalf("loop should continue after a failed turn")
	}
}

func TestRun_InterruptDuringModelCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(heard("Hello"), heard("unreached"))
	h.dlg.onCall = cancel
	h.loop.Run(ctx)

	if len(h.out.spoken) != 1 {
		t.Fatalf("reply must not be spoken after interrupt: %q", h.out.spoken)
	}
	if !h.display.contains("👋 Goodbye!") {
		t.Fatalf("goodbye not shown: %q", h.display.lines)
	}
	if h.in.calls != 1 || h.loop.State() != Terminated {
		t.Fatalf("calls=%d state=%v", h.in.calls, h.loop.State())
	}
}

func TestRun_InterruptWhileWaitingForInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(step{err: context.Canceled})
	h.in.hook[0] = cancel
	h.loop.Run(ctx)

	if !h.display.contains("👋 Goodbye!") || h.display.contains("❌ Error") {
		t.Fatalf("unexpected display %q", h.display.lines)
	}
}

func TestBanner_ReflectsMode(t *testing.T) {
	h := newHarness()
	h.loop.deps.VoiceMode = true
	h.loop.Run(context.Background())
	if !h.display.contains("AI ASSISTANT STARTED") || !h.display.contains("Voice mode available") {
		t.Fatalf("unexpected banner %q", h.display.lines)
	}

	h = newHarness()
	h.loop.Run(context.Background())
	if !h.display.contains("Text mode only") {
		t.Fatalf("unexpected banner %q", h.display.lines)
	}
}

func TestStateString(t *testing.T) {
	if AwaitingModel.String() != "awaiting-model" || State(42).String() != "unknown" {
		t.Fatalf("unexpected state names")
	}
	if newHarness().loop.ID() == "" {
		t.Fatalf("session id must be set")
	}
}

func TestRun_InputArrivingWithInterruptIsNotRouted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(heard("clear"), heard("unreached"))
	h.in.hook[0] = cancel
	h.loop.Run(ctx)

	if h.clearer.cleared != 0 || h.cmds.calls != 0 {
		t.Fatalf("input routed after interrupt: cleared=%d interpret=%d", h.clearer.cleared, h.cmds.calls)
	}
	if len(h.out.spoken) != 1 || h.out.spoken[0] != Greeting {
		t.Fatalf("only the greeting should be spoken, got %q", h.out.spoken)
	}
	if !h.display.contains("👋 Goodbye!") || h.loop.State() != Terminated {
		t.Fatalf("display=%q state=%v", h.display.lines, h.loop.State())
	}
}

func TestRun_PanicDuringInterruptSaysGoodbye(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarness(heard("Hello"), heard("unreached"))
	h.dlg.panics = true
	h.dlg.onCall = cancel
	h.loop.Run(ctx)

	if !h.display.contains("❌ Error: panic: boom") || !h.display.contains("👋 Goodbye!") {
		t.Fatalf("unexpected display %q", h.display.lines)
	}
	if h.in.calls != 1 {
		t.Fatalf("loop continued after interrupt, calls=%d", h.in.calls)
	}
}

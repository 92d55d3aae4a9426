// Package command распознаёт служебные команды в свободном тексте пользователя.
package command

import "strings"

// Kind тип сигнала интерпретатора.
type Kind int

const (
	// Continue — команды нет, текст уходит модели.
	Continue Kind = iota
	// Handled — команда выполнена, Text нужно показать пользователю.
	Handled
	// Terminate — пользователь хочет завершить сессию.
	Terminate
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Handled:
		return "handled"
	case Terminate:
		return "terminate"
	}
	return "unknown"
}

// Signal результат разбора ввода.
type Signal struct {
	Kind Kind
	// Для Continue — исходный ввод, для Handled — ответ пользователю.
	Text string
}

// Clearer сбрасывает историю разговора.
type Clearer interface {
	Clear()
}

// Rule правило: если Match сработал на нормализованном вводе, Apply даёт сигнал.
type Rule struct {
	Name  string
	Match func(normalized string) bool
	Apply func(original string) Signal
}

// HelpText ответ на команду help.
const HelpText = `I'm your AI assistant! I can:
• Answer questions on various topics
• Help with problem-solving
• Engage in conversations
• Remember our chat context

Commands:
• 'help' - Show this message
• 'exit' or 'quit' - End conversation
• 'clear' - Reset conversation history

Just ask me anything!`

// ClearedText подтверждение сброса истории.
const ClearedText = "Conversation history cleared! Starting fresh."

var (
	exitWords  = []string{"exit", "quit", "goodbye", "bye"}
	helpPhrase = []string{"help", "what can you do"}
	clearWords = []string{"clear"}
)

// Interpreter проверяет правила сверху вниз; срабатывает первое подходящее.
type Interpreter struct {
	rules []Rule
}

// NewInterpreter создаёт интерпретатор со стандартным набором команд.
// Совпадение — по подстроке, поэтому "please clear the air" тоже очищает историю.
func NewInterpreter(history Clearer) *Interpreter {
	return &Interpreter{rules: []Rule{
		{
			Name:  "exit",
			Match: containsAny(exitWords),
			Apply: func(string) Signal { return Signal{Kind: Terminate} },
		},
		{
			Name:  "help",
			Match: containsAny(helpPhrase),
			Apply: func(string) Signal { return Signal{Kind: Handled, Text: HelpText} },
		},
		{
			Name:  "clear",
			Match: containsAny(clearWords),
			Apply: func(string) Signal {
				history.Clear()
				return Signal{Kind: Handled, Text: ClearedText}
			},
		},
	}}
}

// Interpret классифицирует ввод. Без совпадений возвращает Continue с исходным текстом.
func (i *Interpreter) Interpret(input string) Signal {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, r := range i.rules {
		if r.Match(normalized) {
			return r.Apply(input)
		}
	}
	return Signal{Kind: Continue, Text: input}
}

func containsAny(words []string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

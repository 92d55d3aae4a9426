package dialogue

import (
	"VoiceAssistant/internal/ai"
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Manager владеет историей, собирает промпт и записывает удачные обмены.
type Manager struct {
	client       ai.Client
	history      *History
	systemPrompt string
	contextSize  int
	logger       *zap.SugaredLogger
}

// NewManager создаёт менеджер диалога. contextSize — сколько последних обменов попадает в промпт.
func NewManager(client ai.Client, systemPrompt string, capacity, contextSize int, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		client:       client,
		history:      NewHistory(capacity),
		systemPrompt: strings.TrimSpace(systemPrompt),
		contextSize:  contextSize,
		logger:       logger,
	}
}

// Respond отправляет ввод модели вместе с коротким контекстом.
// Ошибка модели не выходит наружу: история не меняется, пользователь получает извинение.
func (m *Manager) Respond(ctx context.Context, input string) string {
	prompt := m.BuildPrompt(input)

	start := time.Now()
	reply, err := m.client.Complete(ctx, prompt)
	if err != nil {
		m.logger.Errorw("Model request failed", "duration", time.Since(start).String(), "error", err)
		return Apology(err)
	}
	m.logger.Debugw("Model reply received", "duration", time.Since(start).String(), "chars", len(reply))

	m.history.Append(Exchange{User: input, Assistant: reply})
	return reply
}

// BuildPrompt собирает промпт: инструкции, последние обмены (старые первыми) и текущий ввод.
func (m *Manager) BuildPrompt(input string) string {
	var b strings.Builder
	b.WriteString(m.systemPrompt)
	b.WriteString("\n\n")
	if recent := m.history.Recent(m.contextSize); len(recent) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, e := range recent {
			b.WriteString("User: ")
			b.WriteString(e.User)
			b.WriteString("\nAssistant: ")
			b.WriteString(e.Assistant)
			b.WriteString("\n")
		}
		b.WriteString("\nCurrent question: ")
	}
	b.WriteString(input)
	return b.String()
}

// Clear забывает весь разговор.
func (m *Manager) Clear() { m.history.Clear() }

// History даёт доступ к истории на чтение (для тестов и диагностики).
func (m *Manager) History() *History { return m.history }

// Apology текст для пользователя при неудачном запросе к модели.
func Apology(err error) string {
	return "I apologize, but I encountered an error: " + err.Error()
}

package ai

import (
	"VoiceAssistant/internal/config"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// New создаёт клиента модели по выбранному в конфигурации провайдеру.
// Ошибка здесь фатальна для запуска.
func New(cfg *config.Config, logger *zap.SugaredLogger) (Client, error) {
	key := cfg.APIKey()
	if cfg.RequiresAPIKey() && key == "" {
		return nil, fmt.Errorf("%s: %w", cfg.LLMProvider, errors.New("api key is required"))
	}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewChatClient("gemini", cfg.GeminiBaseURL, key, cfg.Model(), logger), nil
	case config.ProviderOpenAI:
		return NewResponsesClient(key, cfg.Model(), logger), nil
	case config.ProviderCompat:
		return NewCompatClient(cfg.CompatBaseURL, key, cfg.Model(), nil, logger), nil
	case config.ProviderStub:
		return NewStubClient(), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
}

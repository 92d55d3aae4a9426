package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// CompatClient работает с любым OpenAI-совместимым сервером (Ollama, vLLM, LM Studio).
type CompatClient struct {
	client *goopenai.Client
	model  string
	logger *zap.SugaredLogger
}

func NewCompatClient(baseURL, apiKey, model string, httpClient *http.Client, logger *zap.SugaredLogger) *CompatClient {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &CompatClient{client: goopenai.NewClientWithConfig(cfg), model: model, logger: logger}
}

func (c *CompatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Debugw("Compat server rejected request", "status", apiErr.HTTPStatusCode, "error", apiErr.Message)
		}
		return "", remoteErr("compat", err)
	}
	if len(resp.Choices) == 0 {
		return "", remoteErr("compat", ErrEmptyResponse)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", remoteErr("compat", ErrEmptyResponse)
	}
	return out, nil
}

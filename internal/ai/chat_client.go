package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// ChatClient ходит в Chat Completions. Используется для Gemini через его
// OpenAI-совместимый endpoint, поэтому base URL обязателен.
type ChatClient struct {
	client   *openai.Client
	model    openai.ChatModel
	provider string
	logger   *zap.SugaredLogger
}

func NewChatClient(provider, baseURL, apiKey, model string, logger *zap.SugaredLogger, opts ...option.RequestOption) *ChatClient {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(opts...)
	return &ChatClient{client: &client, model: openai.ChatModel(model), provider: provider, logger: logger}
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Debugw("Chat completion failed", "provider", c.provider, "duration", time.Since(start).String(), "error", err)
		return "", remoteErr(c.provider, err)
	}
	c.logger.Debugw("Chat completion received", "provider", c.provider, "duration", time.Since(start).String())

	if len(resp.Choices) == 0 {
		return "", remoteErr(c.provider, ErrEmptyResponse)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", remoteErr(c.provider, ErrEmptyResponse)
	}
	return out, nil
}

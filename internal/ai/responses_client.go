package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"
)

// ResponsesClient отправляет промпт в OpenAI через Responses API.
type ResponsesClient struct {
	client *openai.Client
	model  openai.ChatModel
	logger *zap.SugaredLogger
}

func NewResponsesClient(apiKey string, model string, logger *zap.SugaredLogger, opts ...option.RequestOption) *ResponsesClient {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := openai.NewClient(opts...)
	return &ResponsesClient{client: &client, model: openai.ChatModel(model), logger: logger}
}

func (c *ResponsesClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: prompt,
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		c.logger.Debugw("OpenAI request failed", "duration", time.Since(start).String(), "error", err)
		return "", remoteErr("openai", err)
	}
	c.logger.Debugw("OpenAI response received", "duration", time.Since(start).String())

	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", remoteErr("openai", ErrEmptyResponse)
	}
	return out, nil
}

package ai

import "context"

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct {
	Reply string
}

func NewStubClient() *StubClient { return &StubClient{Reply: "Request received."} }

func (c *StubClient) Complete(_ context.Context, _ string) (string, error) {
	return c.Reply, nil
}

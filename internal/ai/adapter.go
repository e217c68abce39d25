package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/autofix"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
)

// FixGenerator adapts Client to the auto-fix controller's Generator.
type FixGenerator struct {
	client *Client
}

// NewFixGenerator wraps a client for the auto-fix pipeline.
func NewFixGenerator(client *Client) *FixGenerator {
	return &FixGenerator{client: client}
}

// Generate performs one repair generation.
func (g *FixGenerator) Generate(ctx context.Context, req autofix.GenerateRequest) (string, error) {
	return g.client.Generate(ctx, Request{
		Prompt:            req.Prompt,
		SystemInstruction: req.SystemInstruction,
		ResponseFormat:    req.ResponseFormat,
	})
}

// ChatForwarder hands escalated errors to the chat side of the service.
// Delivery is fire-and-forget; a failed hand-off only logs.
type ChatForwarder struct {
	client *Client
	logger *logging.Logger
}

// NewChatForwarder creates the escalation sink.
func NewChatForwarder(client *Client, logger *logging.Logger) *ChatForwarder {
	return &ChatForwarder{client: client, logger: logger.Component("chat")}
}

// SendErrorToChat posts the error text to the chat endpoint.
func (f *ChatForwarder) SendErrorToChat(message string) {
	go func() {
		resp, err := f.client.resty.R().
			SetBody(map[string]string{"role": "system", "content": "The sandbox hit an error that automatic repair could not resolve:\n\n" + message}).
			Post("/v1/chat/messages")
		if err != nil {
			f.logger.Warn("Chat hand-off failed", zap.Error(err))
			return
		}
		if resp.IsError() {
			f.logger.Warn("Chat hand-off rejected", zap.String("status", resp.Status()))
		}
	}()
}

// Package ai is the opaque generation collaborator. The host sends one
// prompt, gets one text back. Transport-level connectivity is retried by the
// underlying client; a generation attempt itself is never retried. Failure
// is terminal for that attempt and the caller decides what happens next.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
	"github.com/sketchforge/studio/backend/internal/infrastructure/resilience"
)

// ErrEmptyResponse is returned when the service answers without text.
var ErrEmptyResponse = errors.New("ai service returned empty response")

// Request is one generation call.
type Request struct {
	Prompt            string `json:"prompt"`
	SystemInstruction string `json:"system_instruction,omitempty"`
	ResponseFormat    string `json:"response_format,omitempty"`
	Model             string `json:"model,omitempty"`
}

// Response is the service's answer.
type Response struct {
	Text string `json:"text"`
}

// Client talks to the generation service over HTTP, guarded by a circuit
// breaker so a dead AI endpoint degrades the fix pipeline instead of
// stalling it.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
	model   string
}

// NewClient creates a production-ready AI client.
func NewClient(cfg config.AIConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	// Resty retries only on transport errors here: a request that reached
	// the service is never replayed.
	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", "SketchForge-Backend/1.0")
	restyClient.SetTransport(retryClient.HTTPClient.Transport)
	if cfg.APIKey != "" {
		restyClient.SetAuthToken(cfg.APIKey)
	}

	breaker := resilience.New("ai-generate", resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{resty: restyClient, breaker: breaker, model: cfg.Model}
}

// Generate issues exactly one generation request and returns the raw text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out Response
		resp, err := c.resty.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&out).
			Post("/v1/generate")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("ai service returned %s", resp.Status())
		}
		return out.Text, nil
	})
	if err != nil {
		return "", err
	}

	text, _ := result.(string)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

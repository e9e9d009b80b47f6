// Package openai implements llm.Completer against any OpenAI-compatible
// chat/completions endpoint.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/common"
)

// Config for the completion client.
type Config struct {
	APIKey    string
	BaseURL   string // default https://api.openai.com/v1
	MaxTokens int    // default 8000
	Timeout   time.Duration
}

type Client struct {
	cfg    Config
	client *resty.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.Timeout)

	return &Client{cfg: cfg, client: client, logger: logger}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion and returns the reply text.
func (c *Client) Complete(ctx context.Context, model, system, user string) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:     model,
			MaxTokens: c.cfg.MaxTokens,
			Messages: []chatMessage{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
		}).
		SetResult(&out).
		Post(endpoint)
	if err != nil {
		return "", common.NewAppError("AI_REQUEST", err.Error(), common.ErrAIRequestFailure)
	}
	if resp.IsError() {
		msg := fmt.Sprintf("completion status %d", resp.StatusCode())
		if out.Error != nil {
			msg += ": " + out.Error.Message
		}
		c.logger.Error("llm.complete.http_error",
			"model", model, "status", resp.StatusCode(), "body_bytes", len(resp.Body()))
		return "", common.NewAppError("AI_REQUEST", msg, common.ErrAIRequestFailure)
	}
	if out.Error != nil {
		return "", common.NewAppError("AI_REQUEST", out.Error.Message, common.ErrAIRequestFailure)
	}
	if len(out.Choices) == 0 {
		return "", common.NewAppError("AI_REQUEST", "no choices in completion response", common.ErrAIRequestFailure)
	}
	return out.Choices[0].Message.Content, nil
}

// Package lfm is the completion client for an OpenAI-compatible
// chat-completions backend (the local LFM server in the default setup).
//
// The client makes exactly one outbound call per Complete invocation
// and never retries; retry and fallback policy belongs to the caller.
package lfm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:8000/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"lfm2.5"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: backend base url is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: backend model is required", contractx.ErrValidation)
	}
	return nil
}

type Client struct {
	api       openaisdk.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

var _ contractx.CompletionClient = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")),
		// The SDK retries 5xx by default; the orchestrator owns retry
		// policy, so the transport must not.
		option.WithMaxRetries(0),
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:       openaisdk.NewClient(opts...),
		model:     strings.TrimSpace(cfg.Model),
		maxTokens: cfg.MaxCompletionToken,
		timeout:   timeout,
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Complete sends one (system, user, temperature) triple and returns the
// raw completion text. The temperature is passed through unmodified;
// 0.0 is an explicit request for maximal determinism, not an unset value.
func (c *Client) Complete(ctx context.Context, systemPrompt, userInput string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(c.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userInput),
		},
		Temperature: openaisdk.Float(temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(c.maxTokens))
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", contractx.ErrBackendStatus)
	}
	return completion.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		return &contractx.StatusError{StatusCode: apierr.StatusCode}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", contractx.ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", contractx.ErrBackendUnreachable, err)
}

// Package responder turns an execution result into a user-facing
// natural-language confirmation.
package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/gitteach/agent-core/agent/contract"
	promptx "github.com/gitteach/agent-core/agent/prompt"
)

const (
	// Naturalness over determinism is intentional here: this is the
	// one stage where variability is acceptable and desired.
	DefaultTemperature = 0.7

	DefaultMaxReplyChars = 1200
)

type Config struct {
	Temperature   float64 `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	MaxReplyChars int     `envconfig:"MAX_REPLY_CHARS" split_words:"true" default:"1200"`
}

type NLResponder struct {
	client      contractx.CompletionClient
	prompts     *promptx.Set
	temperature float64
	maxChars    int
}

var _ contractx.Responder = (*NLResponder)(nil)

func New(client contractx.CompletionClient, prompts *promptx.Set, cfg Config) (*NLResponder, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}
	if prompts == nil {
		return nil, errors.New("prompt set is required")
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	maxChars := cfg.MaxReplyChars
	if maxChars <= 0 {
		maxChars = DefaultMaxReplyChars
	}

	return &NLResponder{
		client:      client,
		prompts:     prompts,
		temperature: temperature,
		maxChars:    maxChars,
	}, nil
}

// Respond produces the confirmation text. There is no parsing step:
// the raw text is the output, subject only to a non-empty and
// max-length sanity check.
func (r *NLResponder) Respond(ctx context.Context, userInput, toolID string, result contractx.ExecutionResult) (string, error) {
	system, err := r.prompts.Responder(userInput, toolID, result.Summary)
	if err != nil {
		return "", err
	}

	raw, err := r.client.Complete(ctx, system, userInput, r.temperature)
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", fmt.Errorf("%w: reply is empty", contractx.ErrResponderOutput)
	}
	if len(reply) > r.maxChars {
		return "", fmt.Errorf("%w: reply exceeds %d chars", contractx.ErrResponderOutput, r.maxChars)
	}
	return reply, nil
}

// FallbackMessage builds the templated confirmation used when the
// responder output fails its sanity check. By that point the side
// effect already happened and the user must still be told.
func FallbackMessage(result contractx.ExecutionResult) string {
	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		return "Done. The requested action was applied."
	}
	return "Done: " + summary
}

// Package router classifies a user utterance into a tool id or the
// chat fallback.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	catalogx "github.com/gitteach/agent-core/agent/catalog"
	contractx "github.com/gitteach/agent-core/agent/contract"
	parsex "github.com/gitteach/agent-core/agent/parse"
	promptx "github.com/gitteach/agent-core/agent/prompt"
)

// Classification requires determinism: a non-zero temperature here is
// a correctness bug, not a tuning choice.
const Temperature = 0.0

type IntentRouter struct {
	client  contractx.CompletionClient
	catalog *catalogx.Catalog
	system  string
}

var _ contractx.Router = (*IntentRouter)(nil)

func New(client contractx.CompletionClient, cat *catalogx.Catalog, prompts *promptx.Set) (*IntentRouter, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}
	if cat == nil {
		return nil, errors.New("tool catalog is required")
	}
	if prompts == nil {
		return nil, errors.New("prompt set is required")
	}

	system, err := prompts.Router(cat.Descriptors())
	if err != nil {
		return nil, err
	}

	return &IntentRouter{
		client:  client,
		catalog: cat,
		system:  system,
	}, nil
}

// Route classifies the utterance. Transport errors propagate to the
// caller; a malformed or out-of-catalog classification falls closed to
// chat, because chat is the only path with no side effect.
func (r *IntentRouter) Route(ctx context.Context, userInput string) (contractx.RouteDecision, error) {
	input := strings.TrimSpace(userInput)
	if input == "" {
		return contractx.RouteDecision{}, fmt.Errorf("%w: user input is empty", contractx.ErrValidation)
	}

	raw, err := r.client.Complete(ctx, r.system, input, Temperature)
	if err != nil {
		return contractx.RouteDecision{}, err
	}

	obj, err := parsex.JSONObject(raw)
	if err != nil {
		log.Warn().Err(err).Msg("router: unparseable classification, falling back to chat")
		return contractx.RouteDecision{ToolID: contractx.ToolChat}, nil
	}

	toolID, ok := parsex.StringField(obj, "tool")
	if !ok {
		log.Warn().Str("raw", raw).Msg("router: classification has no tool field, falling back to chat")
		return contractx.RouteDecision{ToolID: contractx.ToolChat}, nil
	}

	toolID = strings.TrimSpace(toolID)
	if toolID == contractx.ToolChat {
		return contractx.RouteDecision{ToolID: contractx.ToolChat}, nil
	}
	if !r.catalog.Has(toolID) {
		// An unrecognized id must never reach the constructor.
		log.Warn().Str("tool", toolID).Msg("router: unknown tool id, falling back to chat")
		return contractx.RouteDecision{ToolID: contractx.ToolChat}, nil
	}

	return contractx.RouteDecision{ToolID: toolID}, nil
}

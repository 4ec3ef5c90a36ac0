// Package constructor derives a validated parameter set from free text
// for a routed tool.
package constructor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/gitteach/agent-core/agent/catalog"
	contractx "github.com/gitteach/agent-core/agent/contract"
	parsex "github.com/gitteach/agent-core/agent/parse"
	promptx "github.com/gitteach/agent-core/agent/prompt"
)

// Extraction requires determinism, same as classification.
const Temperature = 0.0

type ParamConstructor struct {
	client  contractx.CompletionClient
	catalog *catalogx.Catalog
	prompts *promptx.Set
}

var _ contractx.Constructor = (*ParamConstructor)(nil)

func New(client contractx.CompletionClient, cat *catalogx.Catalog, prompts *promptx.Set) (*ParamConstructor, error) {
	if client == nil {
		return nil, errors.New("completion client is required")
	}
	if cat == nil {
		return nil, errors.New("tool catalog is required")
	}
	if prompts == nil {
		return nil, errors.New("prompt set is required")
	}

	return &ParamConstructor{
		client:  client,
		catalog: cat,
		prompts: prompts,
	}, nil
}

// Construct extracts the tool's parameters from the utterance. The
// contract tolerates over-generation but not under-generation: fields
// outside the schema are dropped, missing required fields fail with
// IncompleteParamsError, and a reply that is not JSON at all fails
// with MalformedResponseError. The two kinds stay distinct.
func (c *ParamConstructor) Construct(ctx context.Context, toolID, userInput string) (contractx.ParameterSet, error) {
	descriptor, ok := c.catalog.Lookup(toolID)
	if !ok {
		return contractx.ParameterSet{}, fmt.Errorf("%w: id=%s", contractx.ErrUnknownTool, toolID)
	}

	input := strings.TrimSpace(userInput)
	if input == "" {
		return contractx.ParameterSet{}, fmt.Errorf("%w: user input is empty", contractx.ErrValidation)
	}

	system, err := c.prompts.Constructor(descriptor)
	if err != nil {
		return contractx.ParameterSet{}, err
	}

	raw, err := c.client.Complete(ctx, system, input, Temperature)
	if err != nil {
		return contractx.ParameterSet{}, err
	}

	obj, err := parsex.JSONObject(raw)
	if err != nil {
		return contractx.ParameterSet{}, err
	}

	params, _ := parsex.ObjectField(obj, "params")
	params = dropUnknown(descriptor, params)

	if err := c.catalog.ValidateParams(toolID, params); err != nil {
		return contractx.ParameterSet{}, err
	}

	action, _ := parsex.StringField(obj, "action")
	action = strings.TrimSpace(action)
	if action == "" {
		action = "invoke_" + toolID
	}

	// ToolID is pinned to the routed id regardless of what the model
	// echoed, keeping the parameter set consistent with its route.
	return contractx.ParameterSet{
		ToolID: toolID,
		Action: action,
		Params: params,
	}, nil
}

func dropUnknown(d contractx.ToolDescriptor, params map[string]any) map[string]any {
	kept := make(map[string]any, len(params))
	for name, value := range params {
		if _, ok := d.Params[name]; ok {
			kept[name] = value
		}
	}
	return kept
}

// Package prompt embeds and renders the per-stage system prompts.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/constructor.txt
	constructorRaw string

	//go:embed template/responder.txt
	responderRaw string
)

type Set struct {
	router      *template.Template
	constructor *template.Template
	responder   *template.Template
}

// LoadSet parses the embedded templates. The embed is compile-time,
// so a parse failure is a programming error and MustLoadSet panics.
func LoadSet() (*Set, error) {
	router, err := template.New("router").Parse(strings.TrimSpace(routerRaw))
	if err != nil {
		return nil, fmt.Errorf("parse router prompt: %w", err)
	}
	constructor, err := template.New("constructor").Parse(strings.TrimSpace(constructorRaw))
	if err != nil {
		return nil, fmt.Errorf("parse constructor prompt: %w", err)
	}
	responder, err := template.New("responder").Parse(strings.TrimSpace(responderRaw))
	if err != nil {
		return nil, fmt.Errorf("parse responder prompt: %w", err)
	}

	return &Set{
		router:      router,
		constructor: constructor,
		responder:   responder,
	}, nil
}

func MustLoadSet() *Set {
	set, err := LoadSet()
	if err != nil {
		panic(err)
	}
	return set
}

type routerTool struct {
	ID    string
	Hints string
}

// Router renders the classification prompt embedding the catalog.
func (s *Set) Router(tools []contractx.ToolDescriptor) (string, error) {
	lines := make([]routerTool, 0, len(tools))
	for _, d := range tools {
		lines = append(lines, routerTool{
			ID:    d.ID,
			Hints: strings.Join(d.TriggerHints, ", "),
		})
	}

	var b strings.Builder
	if err := s.router.Execute(&b, map[string]any{"Tools": lines}); err != nil {
		return "", fmt.Errorf("render router prompt: %w", err)
	}
	return b.String(), nil
}

type constructorParam struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Constructor renders the extraction prompt for one tool, listing
// exactly the schema's parameter names and types plus a worked example.
// Required parameters come first so the prompt stays deterministic.
func (s *Set) Constructor(d contractx.ToolDescriptor) (string, error) {
	paramOrder := make([]string, 0, len(d.Params))
	for name := range d.Params {
		paramOrder = append(paramOrder, name)
	}
	sort.Slice(paramOrder, func(i, j int) bool {
		a, b := d.Params[paramOrder[i]], d.Params[paramOrder[j]]
		if a.Required != b.Required {
			return a.Required
		}
		return paramOrder[i] < paramOrder[j]
	})

	params := make([]constructorParam, 0, len(paramOrder))
	example := make(map[string]any, len(paramOrder))
	for _, name := range paramOrder {
		spec := d.Params[name]
		params = append(params, constructorParam{
			Name:        name,
			Type:        spec.Type,
			Required:    spec.Required,
			Description: spec.Description,
		})
		example[name] = exampleValue(spec.Type)
	}

	exampleJSON, err := json.Marshal(example)
	if err != nil {
		return "", fmt.Errorf("render constructor example: %w", err)
	}

	var b strings.Builder
	err = s.constructor.Execute(&b, map[string]any{
		"ToolID":        d.ID,
		"Params":        params,
		"ExampleAction": "invoke_" + d.ID,
		"ExampleParams": string(exampleJSON),
	})
	if err != nil {
		return "", fmt.Errorf("render constructor prompt: %w", err)
	}
	return b.String(), nil
}

// Responder renders the closed-loop confirmation prompt.
func (s *Set) Responder(userInput, toolID, summary string) (string, error) {
	var b strings.Builder
	err := s.responder.Execute(&b, map[string]any{
		"UserInput": userInput,
		"ToolID":    toolID,
		"Summary":   summary,
	})
	if err != nil {
		return "", fmt.Errorf("render responder prompt: %w", err)
	}
	return b.String(), nil
}

func exampleValue(paramType string) any {
	switch strings.ToLower(strings.TrimSpace(paramType)) {
	case "number":
		return 1.5
	case "integer":
		return 1
	case "boolean":
		return true
	default:
		return "value"
	}
}

// Package catalog holds the static registry of tool descriptors.
//
// The catalog is configuration data supplied externally: it is loaded
// once at process start, compiled into per-tool parameter schemas, and
// never mutated afterwards, so unsynchronized concurrent reads are safe.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

var allowedParamTypes = map[string]string{
	"string":  "string",
	"number":  "number",
	"integer": "integer",
	"boolean": "boolean",
}

type fileFormat struct {
	Tools []contractx.ToolDescriptor `yaml:"tools"`
}

type Catalog struct {
	byID    map[string]contractx.ToolDescriptor
	order   []string
	schemas map[string]*gojsonschema.Schema
}

// Load reads a YAML catalog file and compiles it.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file fileFormat
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	return New(file.Tools)
}

// New compiles a catalog from descriptors.
func New(descriptors []contractx.ToolDescriptor) (*Catalog, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: catalog has no tools", contractx.ErrValidation)
	}

	c := &Catalog{
		byID:    make(map[string]contractx.ToolDescriptor, len(descriptors)),
		order:   make([]string, 0, len(descriptors)),
		schemas: make(map[string]*gojsonschema.Schema, len(descriptors)),
	}

	for _, d := range descriptors {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: tool id is empty", contractx.ErrValidation)
		}
		if id == contractx.ToolChat {
			return nil, fmt.Errorf("%w: tool id %q is reserved", contractx.ErrValidation, contractx.ToolChat)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate tool id=%s", contractx.ErrValidation, id)
		}

		d.ID = id
		schema, err := compileParamSchema(d)
		if err != nil {
			return nil, err
		}

		c.byID[id] = d
		c.order = append(c.order, id)
		c.schemas[id] = schema
	}

	return c, nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Lookup(id string) (contractx.ToolDescriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// Descriptors returns the tools in file order. The slice is a copy;
// callers cannot reach the catalog's own state through it.
func (c *Catalog) Descriptors() []contractx.ToolDescriptor {
	out := make([]contractx.ToolDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ValidateParams checks params against the tool's compiled schema.
// Missing required fields yield IncompleteParamsError; any other
// schema violation is reported as a validation error.
func (c *Catalog) ValidateParams(toolID string, params map[string]any) error {
	schema, ok := c.schemas[toolID]
	if !ok {
		return fmt.Errorf("%w: id=%s", contractx.ErrUnknownTool, toolID)
	}
	if params == nil {
		params = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return fmt.Errorf("%w: validate params for tool=%s: %v", contractx.ErrValidation, toolID, err)
	}
	if result.Valid() {
		return nil
	}

	missing := make([]string, 0, 2)
	var other []string
	for _, verr := range result.Errors() {
		if verr.Type() == "required" {
			if prop, ok := verr.Details()["property"].(string); ok {
				missing = append(missing, prop)
				continue
			}
		}
		other = append(other, verr.String())
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &contractx.IncompleteParamsError{ToolID: toolID, Missing: missing}
	}
	return fmt.Errorf("%w: params for tool=%s: %s", contractx.ErrValidation, toolID, strings.Join(other, "; "))
}

func compileParamSchema(d contractx.ToolDescriptor) (*gojsonschema.Schema, error) {
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))

	for name, spec := range d.Params {
		jsonType, ok := allowedParamTypes[strings.ToLower(strings.TrimSpace(spec.Type))]
		if !ok {
			return nil, fmt.Errorf("%w: tool=%s param=%s has unsupported type=%q",
				contractx.ErrValidation, d.ID, name, spec.Type)
		}
		properties[name] = map[string]any{
			"type":        jsonType,
			"description": spec.Description,
		}
		if spec.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
		// Over-generation is tolerated; unknown fields are dropped
		// before validation, not rejected here.
		"additionalProperties": true,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema for tool=%s: %w", d.ID, err)
	}
	return schema, nil
}

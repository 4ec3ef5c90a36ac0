// Package toolkit is the tool executor collaborator: it performs the
// side effect a parameter set describes and reports a result summary.
package toolkit

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

// Handler executes one tool. Per-tool failures are reported through
// ExecutionResult.Success=false; a non-nil error means the handler
// could not run at all.
type Handler func(ctx context.Context, ps contractx.ParameterSet) (contractx.ExecutionResult, error)

type Registry struct {
	handlers map[string]Handler
}

var _ contractx.ToolExecutor = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(toolID string, h Handler) error {
	id := strings.TrimSpace(toolID)
	if id == "" {
		return fmt.Errorf("%w: tool id is empty", contractx.ErrValidation)
	}
	if h == nil {
		return fmt.Errorf("%w: handler for tool=%s is nil", contractx.ErrValidation, id)
	}
	if _, dup := r.handlers[id]; dup {
		return fmt.Errorf("%w: handler for tool=%s already registered", contractx.ErrValidation, id)
	}
	r.handlers[id] = h
	return nil
}

func (r *Registry) MustRegister(toolID string, h Handler) {
	if err := r.Register(toolID, h); err != nil {
		panic(err)
	}
}

func (r *Registry) Execute(ctx context.Context, ps contractx.ParameterSet) (contractx.ExecutionResult, error) {
	handler, ok := r.handlers[ps.ToolID]
	if !ok {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: fmt.Sprintf("tool=%s has no executor", ps.ToolID),
		}, nil
	}
	return handler(ctx, ps)
}

func stringParam(ps contractx.ParameterSet, name string) string {
	v, ok := ps.Params[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

package contract

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrBackendUnreachable = errors.New("completion backend unreachable")
	ErrBackendTimeout     = errors.New("completion backend timed out")
	ErrBackendStatus      = errors.New("completion backend returned error status")
	ErrMalformedResponse  = errors.New("model response is not a JSON object")
	ErrIncompleteParams   = errors.New("constructed parameters are incomplete")
	ErrResponderOutput    = errors.New("responder output failed sanity check")
	ErrUnknownTool        = errors.New("tool is not in the catalog")
	ErrExecutionFailed    = errors.New("tool execution failed")
	ErrValidation         = errors.New("validation failed")
)

// StatusError reports a non-2xx reply from the completion backend.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion backend returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrBackendStatus }

// MalformedResponseError carries the raw model output verbatim so the
// caller can log it without the parser guessing at repairs.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model response is not a JSON object: %q", truncate(e.Raw, 120))
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// IncompleteParamsError lists the required schema fields the model
// failed to produce.
type IncompleteParamsError struct {
	ToolID  string
	Missing []string
}

func (e *IncompleteParamsError) Error() string {
	missing := append([]string(nil), e.Missing...)
	sort.Strings(missing)
	return fmt.Sprintf("constructed parameters for tool=%s are incomplete: missing %s",
		e.ToolID, strings.Join(missing, ", "))
}

func (e *IncompleteParamsError) Unwrap() error { return ErrIncompleteParams }

// TurnError is the single structured failure value a turn surfaces:
// the stage that failed plus the underlying reason.
type TurnError struct {
	Stage Stage
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed at stage=%s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

func FailStage(stage Stage, err error) *TurnError {
	return &TurnError{Stage: stage, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

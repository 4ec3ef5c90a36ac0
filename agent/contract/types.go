package contract

import "time"

// ToolChat is the reserved route id for the no-tool conversational path.
const ToolChat = "chat"

type Stage string

const (
	StageRouting      Stage = "routing"
	StageConstructing Stage = "constructing"
	StageExecuting    Stage = "executing"
	StageResponding   Stage = "responding"
)

// ParamSpec describes one parameter of a tool's schema.
type ParamSpec struct {
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required" json:"required"`
	Description string `yaml:"description" json:"description"`
}

// ToolDescriptor is one entry of the tool catalog. Descriptors are
// loaded once at process start and never mutated afterwards.
type ToolDescriptor struct {
	ID           string               `yaml:"id" json:"id"`
	TriggerHints []string             `yaml:"hints" json:"hints"`
	Params       map[string]ParamSpec `yaml:"params" json:"params"`
}

// RouteDecision is the classification result for one utterance.
type RouteDecision struct {
	ToolID string `json:"tool"`
}

func (d RouteDecision) IsChat() bool {
	return d.ToolID == ToolChat
}

// ParameterSet is the validated parameter object for a routed tool.
// It is produced by the constructor and consumed exactly once by the
// executor; ToolID always equals the route decision it derives from.
type ParameterSet struct {
	ToolID string         `json:"toolId"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// ExecutionResult is the executor's summary of the performed side effect.
type ExecutionResult struct {
	ToolID  string `json:"toolId"`
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// AgentTurn is the ephemeral aggregate for one request's lifecycle.
// It is created at request entry and discarded after the final message;
// no turn outlives a single request.
type AgentTurn struct {
	TurnID       string           `json:"turn_id"`
	UserInput    string           `json:"user_input"`
	Route        RouteDecision    `json:"route"`
	Params       *ParameterSet    `json:"params,omitempty"`
	Result       *ExecutionResult `json:"result,omitempty"`
	FinalMessage string           `json:"final_message,omitempty"`

	Outcome     string    `json:"outcome"`
	FailedStage Stage     `json:"failed_stage,omitempty"`
	Failure     string    `json:"failure,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
)

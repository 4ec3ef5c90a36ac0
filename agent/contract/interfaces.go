package contract

import "context"

// CompletionClient is the single seam to the language-model backend.
// Implementations make exactly one outbound call per invocation and
// never retry internally; retry policy belongs to the caller. The
// temperature is passed through unmodified.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userInput string, temperature float64) (string, error)
}

type Router interface {
	Route(ctx context.Context, userInput string) (RouteDecision, error)
}

type Constructor interface {
	Construct(ctx context.Context, toolID, userInput string) (ParameterSet, error)
}

type Responder interface {
	Respond(ctx context.Context, userInput, toolID string, result ExecutionResult) (string, error)
}

// ToolExecutor performs the actual side effect for a parameter set.
// A per-tool failure is reported via ExecutionResult.Success=false;
// a non-nil error means the executor could not run at all.
type ToolExecutor interface {
	Execute(ctx context.Context, ps ParameterSet) (ExecutionResult, error)
}

// ChatReplier produces the conversational reply for the no-tool path.
type ChatReplier interface {
	Reply(ctx context.Context, userInput string) (string, error)
}

// TurnRecorder receives completed turns for audit purposes.
type TurnRecorder interface {
	Record(ctx context.Context, turn AgentTurn) error
}

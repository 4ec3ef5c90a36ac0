package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/gitteach/agent-core/agent/contract"
	responderx "github.com/gitteach/agent-core/agent/responder"
)

type GraphInput struct {
	TurnID    string
	Text      string
	StartedAt time.Time
}

type GraphOutput struct {
	Turn contractx.AgentTurn
}

type turnState struct {
	Turn contractx.AgentTurn
}

// compileTurnGraph builds the turn state machine:
// routing -> (chat: done) | constructing -> executing -> responding -> done.
// Stage failures surface as *contract.TurnError through Invoke.
func (o *Orchestrator) compileTurnGraph(ctx context.Context) (compose.Runnable[GraphInput, GraphOutput], error) {
	graph := compose.NewGraph[GraphInput, GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*turnState, error) {
			text := strings.TrimSpace(in.Text)
			if text == "" {
				return nil, ErrInvalidInput
			}
			return &turnState{
				Turn: contractx.AgentTurn{
					TurnID:    in.TurnID,
					UserInput: text,
					StartedAt: in.StartedAt,
				},
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("route_intent",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			decision, err := o.router.Route(ctx, in.Turn.UserInput)
			if err != nil {
				return nil, contractx.FailStage(contractx.StageRouting, err)
			}
			in.Turn.Route = decision
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_intent: %w", err)
	}

	if err := graph.AddLambdaNode("chat_reply",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			reply, err := o.chat.Reply(ctx, in.Turn.UserInput)
			if err != nil || strings.TrimSpace(reply) == "" {
				if err != nil {
					log.Warn().Err(err).Str("turn_id", in.Turn.TurnID).Msg("chat replier failed, using canned reply")
				}
				reply = CannedChatReply
			}
			in.Turn.FinalMessage = reply
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node chat_reply: %w", err)
	}

	if err := graph.AddLambdaNode("construct_params",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			ps, err := o.constructor.Construct(ctx, in.Turn.Route.ToolID, in.Turn.UserInput)
			if err != nil {
				// No default guessing: an incomplete set never executes.
				return nil, contractx.FailStage(contractx.StageConstructing, err)
			}
			in.Turn.Params = &ps
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node construct_params: %w", err)
	}

	if err := graph.AddLambdaNode("execute_tool",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			result, err := o.executor.Execute(ctx, *in.Turn.Params)
			if err != nil {
				return nil, contractx.FailStage(contractx.StageExecuting, err)
			}
			if !result.Success {
				// Never reach the responder with a fabricated success.
				return nil, contractx.FailStage(contractx.StageExecuting,
					fmt.Errorf("%w: %s", contractx.ErrExecutionFailed, result.Summary))
			}
			in.Turn.Result = &result
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_tool: %w", err)
	}

	if err := graph.AddLambdaNode("respond",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (*turnState, error) {
			reply, err := o.responder.Respond(ctx, in.Turn.UserInput, in.Turn.Route.ToolID, *in.Turn.Result)
			if err != nil {
				// The side effect already happened; degrade to the
				// templated confirmation instead of failing the turn.
				log.Warn().Err(err).Str("turn_id", in.Turn.TurnID).Msg("responder degraded to templated fallback")
				reply = responderx.FallbackMessage(*in.Turn.Result)
			}
			in.Turn.FinalMessage = reply
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node respond: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *turnState) (GraphOutput, error) {
			in.Turn.Outcome = contractx.OutcomeDone
			in.Turn.FinishedAt = o.now().UTC()
			return GraphOutput{Turn: in.Turn}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *turnState) (string, error) {
			if in.Turn.Route.IsChat() {
				return "chat_reply", nil
			}
			return "construct_params", nil
		},
		map[string]bool{
			"chat_reply":       true,
			"construct_params": true,
		},
	)

	if err := graph.AddEdge(compose.START, "validate_request"); err != nil {
		return nil, fmt.Errorf("add edge start->validate: %w", err)
	}
	if err := graph.AddEdge("validate_request", "route_intent"); err != nil {
		return nil, fmt.Errorf("add edge validate->route: %w", err)
	}
	if err := graph.AddBranch("route_intent", branch); err != nil {
		return nil, fmt.Errorf("add route branch: %w", err)
	}
	if err := graph.AddEdge("chat_reply", "finalize"); err != nil {
		return nil, fmt.Errorf("add edge chat->finalize: %w", err)
	}
	if err := graph.AddEdge("construct_params", "execute_tool"); err != nil {
		return nil, fmt.Errorf("add edge construct->execute: %w", err)
	}
	if err := graph.AddEdge("execute_tool", "respond"); err != nil {
		return nil, fmt.Errorf("add edge execute->respond: %w", err)
	}
	if err := graph.AddEdge("respond", "finalize"); err != nil {
		return nil, fmt.Errorf("add edge respond->finalize: %w", err)
	}
	if err := graph.AddEdge("finalize", compose.END); err != nil {
		return nil, fmt.Errorf("add edge finalize->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("agent.turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}

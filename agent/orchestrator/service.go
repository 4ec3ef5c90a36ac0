// Package orchestrator sequences one agent turn through routing,
// parameter construction, tool execution and response generation.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

var ErrInvalidInput = errors.New("user input is empty")

// CannedChatReply is used when no chat replier collaborator is wired.
// Conversational generation for the chat path is out of scope here.
const CannedChatReply = "I can update your README for you — ask me to add a banner, stats or a language chart."

type Orchestrator struct {
	router      contractx.Router
	constructor contractx.Constructor
	executor    contractx.ToolExecutor
	responder   contractx.Responder
	chat        contractx.ChatReplier
	recorder    contractx.TurnRecorder

	graphRunner compose.Runnable[GraphInput, GraphOutput]

	now func() time.Time
}

func New(
	router contractx.Router,
	constructor contractx.Constructor,
	executor contractx.ToolExecutor,
	responder contractx.Responder,
	opts ...Option,
) (*Orchestrator, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if constructor == nil {
		return nil, errors.New("constructor is required")
	}
	if executor == nil {
		return nil, errors.New("tool executor is required")
	}
	if responder == nil {
		return nil, errors.New("responder is required")
	}

	o := &Orchestrator{
		router:      router,
		constructor: constructor,
		executor:    executor,
		responder:   responder,
		chat:        cannedChatReplier{},
		recorder:    noopRecorder{},
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	graphRunner, err := o.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

type Option func(*Orchestrator)

func WithChatReplier(chat contractx.ChatReplier) Option {
	return func(o *Orchestrator) {
		if chat != nil {
			o.chat = chat
		}
	}
}

func WithTurnRecorder(recorder contractx.TurnRecorder) Option {
	return func(o *Orchestrator) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Run processes one turn. On success the returned turn carries the
// final message; on failure the error is a single *contract.TurnError
// naming the stage and reason, and no partial turn is exposed.
func (o *Orchestrator) Run(ctx context.Context, userInput string) (contractx.AgentTurn, error) {
	turnID := uuid.NewString()
	startedAt := o.now().UTC()

	out, err := o.graphRunner.Invoke(ctx, GraphInput{
		TurnID:    turnID,
		Text:      userInput,
		StartedAt: startedAt,
	})
	if err != nil {
		o.recordFailure(ctx, turnID, userInput, startedAt, err)
		return contractx.AgentTurn{}, err
	}

	turn := out.Turn
	log.Info().
		Str("turn_id", turn.TurnID).
		Str("tool", turn.Route.ToolID).
		Dur("elapsed", turn.FinishedAt.Sub(turn.StartedAt)).
		Msg("turn done")

	o.record(ctx, turn)
	return turn, nil
}

func (o *Orchestrator) record(ctx context.Context, turn contractx.AgentTurn) {
	if err := o.recorder.Record(ctx, turn); err != nil {
		log.Warn().Err(err).Str("turn_id", turn.TurnID).Msg("turn audit record failed")
	}
}

func (o *Orchestrator) recordFailure(ctx context.Context, turnID, userInput string, startedAt time.Time, err error) {
	turn := contractx.AgentTurn{
		TurnID:     turnID,
		UserInput:  userInput,
		Outcome:    contractx.OutcomeFailed,
		Failure:    err.Error(),
		StartedAt:  startedAt,
		FinishedAt: o.now().UTC(),
	}

	var turnErr *contractx.TurnError
	if errors.As(err, &turnErr) {
		turn.FailedStage = turnErr.Stage
	}

	log.Error().Err(err).Str("turn_id", turnID).Str("stage", string(turn.FailedStage)).Msg("turn failed")
	o.record(ctx, turn)
}

type cannedChatReplier struct{}

func (cannedChatReplier) Reply(context.Context, string) (string, error) {
	return CannedChatReply, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, contractx.AgentTurn) error {
	return nil
}

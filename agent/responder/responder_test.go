package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/gitteach/agent-core/agent/contract"
	promptx "github.com/gitteach/agent-core/agent/prompt"
)

type completeCall struct {
	system      string
	user        string
	temperature float64
}

type stubClient struct {
	reply string
	err   error
	calls []completeCall
}

func (s *stubClient) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	s.calls = append(s.calls, completeCall{system: system, user: user, temperature: temperature})
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func fixtureResult() contractx.ExecutionResult {
	return contractx.ExecutionResult{
		ToolID:  "welcome_header",
		Success: true,
		Summary: `Banner "shark" inserted with color blue.`,
	}
}

func newTestResponder(t *testing.T, client contractx.CompletionClient, cfg Config) *NLResponder {
	t.Helper()
	r, err := New(client, promptx.MustLoadSet(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRespond(t *testing.T) {
	t.Parallel()

	client := &stubClient{reply: "Listo, tu banner de tiburon azul ya esta en el README."}
	r := newTestResponder(t, client, Config{})

	reply, err := r.Respond(context.Background(), "Pon un banner estilo shark color azul", "welcome_header", fixtureResult())
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply == "" {
		t.Fatal("reply must be non-empty")
	}
	if strings.ContainsAny(reply, "{}") {
		t.Fatalf("reply leaks structured syntax: %q", reply)
	}
}

func TestRespondUsesConfiguredTemperature(t *testing.T) {
	t.Parallel()

	client := &stubClient{reply: "ok, done"}
	r := newTestResponder(t, client, Config{Temperature: 0.9})

	if _, err := r.Respond(context.Background(), "hola", "welcome_header", fixtureResult()); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if client.calls[0].temperature != 0.9 {
		t.Fatalf("unexpected temperature: %v", client.calls[0].temperature)
	}
}

func TestRespondDefaultsToHighTemperature(t *testing.T) {
	t.Parallel()

	client := &stubClient{reply: "ok, done"}
	r := newTestResponder(t, client, Config{})

	if _, err := r.Respond(context.Background(), "hola", "welcome_header", fixtureResult()); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if client.calls[0].temperature != DefaultTemperature {
		t.Fatalf("naturalness requires a non-zero default temperature, got %v", client.calls[0].temperature)
	}
}

func TestRespondPromptEmbedsContext(t *testing.T) {
	t.Parallel()

	client := &stubClient{reply: "done"}
	r := newTestResponder(t, client, Config{})

	result := fixtureResult()
	if _, err := r.Respond(context.Background(), "Pon un banner", "welcome_header", result); err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	system := client.calls[0].system
	for _, want := range []string{"Pon un banner", "welcome_header", result.Summary} {
		if !strings.Contains(system, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
}

func TestRespondEmptyReply(t *testing.T) {
	t.Parallel()

	r := newTestResponder(t, &stubClient{reply: "   \n"}, Config{})
	_, err := r.Respond(context.Background(), "hola", "welcome_header", fixtureResult())
	if !errors.Is(err, contractx.ErrResponderOutput) {
		t.Fatalf("expected ErrResponderOutput, got %v", err)
	}
}

func TestRespondOverBudgetReply(t *testing.T) {
	t.Parallel()

	r := newTestResponder(t, &stubClient{reply: strings.Repeat("a", 50)}, Config{MaxReplyChars: 10})
	_, err := r.Respond(context.Background(), "hola", "welcome_header", fixtureResult())
	if !errors.Is(err, contractx.ErrResponderOutput) {
		t.Fatalf("expected ErrResponderOutput, got %v", err)
	}
}

func TestFallbackMessage(t *testing.T) {
	t.Parallel()

	msg := FallbackMessage(fixtureResult())
	if !strings.Contains(msg, "Banner") {
		t.Fatalf("fallback must carry the execution summary: %q", msg)
	}

	empty := FallbackMessage(contractx.ExecutionResult{})
	if strings.TrimSpace(empty) == "" {
		t.Fatal("fallback must never be empty")
	}
}

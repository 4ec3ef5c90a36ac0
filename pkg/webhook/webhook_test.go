package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	var (
		calls int
		got   contractx.AgentTurn
		auth  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode turn payload: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, Token: "sekrit"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	turn := contractx.AgentTurn{
		TurnID:       "t-1",
		UserInput:    "Pon un banner",
		FinalMessage: "Listo.",
		Outcome:      contractx.OutcomeDone,
	}
	if err := client.Record(context.Background(), turn); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
	if auth != "Bearer sekrit" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
	if got.TurnID != "t-1" || got.Outcome != contractx.OutcomeDone {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRecordNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := client.Record(context.Background(), contractx.AgentTurn{TurnID: "t-1"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "not a url"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

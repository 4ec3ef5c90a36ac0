package toolkit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

func TestWidgetInsertWelcomeHeader(t *testing.T) {
	t.Parallel()

	w := &WidgetInserter{Username: "octocat"}
	result, err := w.Insert(context.Background(), contractx.ParameterSet{
		ToolID: ToolWelcomeHeader,
		Params: map[string]any{"type": "shark", "color": "blue"},
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("unexpected failure: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "shark") || !strings.Contains(result.Summary, "blue") {
		t.Fatalf("summary must carry the rendered banner details: %q", result.Summary)
	}
}

func TestWidgetInsertDefaults(t *testing.T) {
	t.Parallel()

	w := &WidgetInserter{}
	result, err := w.Insert(context.Background(), contractx.ParameterSet{ToolID: ToolWelcomeHeader})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("defaults must render: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "waving") {
		t.Fatalf("expected default banner style in summary: %q", result.Summary)
	}
}

func TestWidgetInsertAppendsToReadme(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "README.md")
	w := &WidgetInserter{Username: "octocat", ReadmePath: path}

	result, err := w.Insert(context.Background(), contractx.ParameterSet{ToolID: ToolGithubStats})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("unexpected failure: %q", result.Summary)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read README: %v", err)
	}
	if !strings.Contains(string(content), "username=octocat") {
		t.Fatalf("README missing stats snippet: %q", content)
	}
}

func TestWidgetInsertTechStackBadges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "README.md")
	w := &WidgetInserter{ReadmePath: path}

	result, err := w.Insert(context.Background(), contractx.ParameterSet{
		ToolID: ToolTechStack,
		Params: map[string]any{"stack": "go, docker"},
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("unexpected failure: %q", result.Summary)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read README: %v", err)
	}
	for _, badge := range []string{"-go-", "-docker-"} {
		if !strings.Contains(string(content), badge) {
			t.Fatalf("README missing badge %q: %q", badge, content)
		}
	}
}

func TestWidgetInsertUnknownTool(t *testing.T) {
	t.Parallel()

	w := &WidgetInserter{}
	result, err := w.Insert(context.Background(), contractx.ParameterSet{ToolID: "not_a_widget"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if result.Success {
		t.Fatal("unknown widget must report a failed result")
	}
}

func TestWidgetRegisterAll(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	w := &WidgetInserter{}
	if err := w.RegisterAll(r); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}

	for _, id := range []string{
		ToolWelcomeHeader,
		ToolGithubStats,
		ToolTechStack,
		ToolTopLangs,
		ToolContributionSnake,
	} {
		result, err := r.Execute(context.Background(), contractx.ParameterSet{ToolID: id})
		if err != nil {
			t.Fatalf("Execute(%s) error = %v", id, err)
		}
		if !result.Success {
			t.Fatalf("Execute(%s) failed: %q", id, result.Summary)
		}
	}
}

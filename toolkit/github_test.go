package toolkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

func newGithubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octocat/demo/readme", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Write([]byte("# demo\nA demo repository."))
	})
	mux.HandleFunc("GET /users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "demo"}, {"name": "agent-core"}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGithubTools(t *testing.T, baseURL string) *GithubTools {
	t.Helper()
	g, err := NewGithubTools(GithubConfig{BaseURL: baseURL, Token: "sekrit", Owner: "octocat"})
	if err != nil {
		t.Fatalf("NewGithubTools() error = %v", err)
	}
	return g
}

func TestReadRepo(t *testing.T) {
	t.Parallel()

	g := newGithubTools(t, newGithubServer(t).URL)
	result, err := g.ReadRepo(context.Background(), contractx.ParameterSet{
		ToolID: ToolReadRepo,
		Params: map[string]any{"repo": "demo"},
	})
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("unexpected failure: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "A demo repository.") {
		t.Fatalf("summary must carry the README body: %q", result.Summary)
	}
}

func TestReadRepoMissingRepoParam(t *testing.T) {
	t.Parallel()

	g := newGithubTools(t, newGithubServer(t).URL)
	result, err := g.ReadRepo(context.Background(), contractx.ParameterSet{ToolID: ToolReadRepo})
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	if result.Success {
		t.Fatal("missing repo param must report a failed result")
	}
}

func TestReadRepoNotFound(t *testing.T) {
	t.Parallel()

	g := newGithubTools(t, newGithubServer(t).URL)
	result, err := g.ReadRepo(context.Background(), contractx.ParameterSet{
		ToolID: ToolReadRepo,
		Params: map[string]any{"repo": "absent"},
	})
	if err != nil {
		t.Fatalf("ReadRepo() error = %v", err)
	}
	if result.Success {
		t.Fatal("unknown repository must report a failed result")
	}
	if !strings.Contains(result.Summary, "status=404") {
		t.Fatalf("summary must name the upstream status: %q", result.Summary)
	}
}

func TestListRepos(t *testing.T) {
	t.Parallel()

	g := newGithubTools(t, newGithubServer(t).URL)
	result, err := g.ListRepos(context.Background(), contractx.ParameterSet{ToolID: ToolListRepos})
	if err != nil {
		t.Fatalf("ListRepos() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("unexpected failure: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "demo, agent-core") {
		t.Fatalf("summary must join the repo names: %q", result.Summary)
	}
}

func TestListReposNoOwnerAnywhere(t *testing.T) {
	t.Parallel()

	g, err := NewGithubTools(GithubConfig{BaseURL: "https://api.github.com"})
	if err != nil {
		t.Fatalf("NewGithubTools() error = %v", err)
	}
	result, err := g.ListRepos(context.Background(), contractx.ParameterSet{ToolID: ToolListRepos})
	if err != nil {
		t.Fatalf("ListRepos() error = %v", err)
	}
	if result.Success {
		t.Fatal("missing owner must report a failed result")
	}
}

func TestNewGithubToolsRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewGithubTools(GithubConfig{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

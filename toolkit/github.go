package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

const (
	ToolReadRepo  = "read_repo"
	ToolListRepos = "list_repos"

	maxReadmeBytes = 1 << 20
)

type GithubConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.github.com"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Owner   string        `envconfig:"OWNER" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// GithubTools answers repository questions over the GitHub REST API.
type GithubTools struct {
	baseURL    string
	token      string
	owner      string
	httpClient *http.Client
}

func NewGithubTools(cfg GithubConfig) (*GithubTools, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("github base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &GithubTools{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		owner:   strings.TrimSpace(cfg.Owner),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (g *GithubTools) RegisterAll(r *Registry) error {
	if err := r.Register(ToolReadRepo, g.ReadRepo); err != nil {
		return err
	}
	return r.Register(ToolListRepos, g.ListRepos)
}

// ReadRepo fetches a repository README and summarizes its content.
func (g *GithubTools) ReadRepo(ctx context.Context, ps contractx.ParameterSet) (contractx.ExecutionResult, error) {
	repo := stringParam(ps, "repo")
	if repo == "" {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: "repo parameter is required",
		}, nil
	}
	owner := stringParam(ps, "owner")
	if owner == "" {
		owner = g.owner
	}
	if owner == "" {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: "owner parameter is required and no default owner is configured",
		}, nil
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/readme", g.baseURL, owner, repo)
	body, err := g.get(ctx, endpoint, "application/vnd.github.raw+json")
	if err != nil {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: fmt.Sprintf("could not read %s/%s: %v", owner, repo, err),
		}, nil
	}

	return contractx.ExecutionResult{
		ToolID:  ps.ToolID,
		Success: true,
		Summary: fmt.Sprintf("Content of %s/%s README.md:\n%s", owner, repo, string(body)),
	}, nil
}

// ListRepos lists the configured (or given) owner's repositories.
func (g *GithubTools) ListRepos(ctx context.Context, ps contractx.ParameterSet) (contractx.ExecutionResult, error) {
	owner := stringParam(ps, "owner")
	if owner == "" {
		owner = g.owner
	}
	if owner == "" {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: "owner parameter is required and no default owner is configured",
		}, nil
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated", g.baseURL, owner)
	body, err := g.get(ctx, endpoint, "application/vnd.github+json")
	if err != nil {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: fmt.Sprintf("could not list repos for %s: %v", owner, err),
		}, nil
	}

	var repos []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &repos); err != nil {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: fmt.Sprintf("unexpected repo list payload for %s: %v", owner, err),
		}, nil
	}

	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}

	return contractx.ExecutionResult{
		ToolID:  ps.ToolID,
		Success: true,
		Summary: fmt.Sprintf("Repositories of %s: %s", owner, strings.Join(names, ", ")),
	}, nil
}

func (g *GithubTools) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute github request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded with status=%d", resp.StatusCode)
	}
	return body, nil
}

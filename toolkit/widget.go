package toolkit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	contractx "github.com/gitteach/agent-core/agent/contract"
)

// Widget tool ids from the profile-README catalog.
const (
	ToolWelcomeHeader     = "welcome_header"
	ToolGithubStats       = "github_stats"
	ToolTechStack         = "tech_stack"
	ToolTopLangs          = "top_langs"
	ToolContributionSnake = "contribution_snake"
)

// WidgetInserter renders profile-README widgets as markdown snippets
// and appends them to the target README file. With an empty path it
// runs dry: the snippet is rendered and summarized but nothing is
// written, which is what the test and demo setups use.
type WidgetInserter struct {
	Username   string
	ReadmePath string
}

func (w *WidgetInserter) RegisterAll(r *Registry) error {
	for _, id := range []string{
		ToolWelcomeHeader,
		ToolGithubStats,
		ToolTechStack,
		ToolTopLangs,
		ToolContributionSnake,
	} {
		if err := r.Register(id, w.Insert); err != nil {
			return err
		}
	}
	return nil
}

// Insert renders the widget for ps.ToolID and applies it.
func (w *WidgetInserter) Insert(ctx context.Context, ps contractx.ParameterSet) (contractx.ExecutionResult, error) {
	snippet, detail, err := w.render(ps)
	if err != nil {
		return contractx.ExecutionResult{
			ToolID:  ps.ToolID,
			Success: false,
			Summary: err.Error(),
		}, nil
	}

	if w.ReadmePath != "" {
		if err := appendSnippet(w.ReadmePath, snippet); err != nil {
			return contractx.ExecutionResult{
				ToolID:  ps.ToolID,
				Success: false,
				Summary: fmt.Sprintf("could not update %s: %v", w.ReadmePath, err),
			}, nil
		}
	}

	return contractx.ExecutionResult{
		ToolID:  ps.ToolID,
		Success: true,
		Summary: detail,
	}, nil
}

func (w *WidgetInserter) render(ps contractx.ParameterSet) (snippet, detail string, err error) {
	username := w.Username
	if username == "" {
		username = "octocat"
	}

	switch ps.ToolID {
	case ToolWelcomeHeader:
		style := stringParam(ps, "type")
		if style == "" {
			style = "waving"
		}
		color := stringParam(ps, "color")
		if color == "" {
			color = "auto"
		}
		text := stringParam(ps, "text")
		if text == "" {
			text = "Welcome"
		}
		query := url.Values{}
		query.Set("type", style)
		query.Set("color", color)
		query.Set("text", text)
		snippet = fmt.Sprintf("![header](https://capsule-render.vercel.app/api?%s)", query.Encode())
		detail = fmt.Sprintf("Banner %q inserted with color %s.", style, color)

	case ToolGithubStats:
		snippet = fmt.Sprintf("![stats](https://github-readme-stats.vercel.app/api?username=%s&show_icons=true)", username)
		detail = "GitHub stats card inserted."

	case ToolTechStack:
		badges := stringParam(ps, "stack")
		if badges == "" {
			badges = "go"
		}
		var b strings.Builder
		for _, tech := range strings.Split(badges, ",") {
			tech = strings.TrimSpace(tech)
			if tech == "" {
				continue
			}
			fmt.Fprintf(&b, "![%s](https://img.shields.io/badge/-%s-informational) ", tech, url.PathEscape(tech))
		}
		snippet = strings.TrimSpace(b.String())
		detail = fmt.Sprintf("Tech stack badges inserted for: %s.", badges)

	case ToolTopLangs:
		snippet = fmt.Sprintf("![langs](https://github-readme-stats.vercel.app/api/top-langs/?username=%s&layout=compact)", username)
		detail = "Top languages chart inserted."

	case ToolContributionSnake:
		snippet = fmt.Sprintf("![snake](https://raw.githubusercontent.com/%s/%s/output/github-contribution-grid-snake.svg)", username, username)
		detail = "Contribution snake animation inserted."

	default:
		return "", "", fmt.Errorf("no widget renderer for tool=%s", ps.ToolID)
	}

	return snippet, detail, nil
}

func appendSnippet(path, snippet string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString("\n" + snippet + "\n")
	return err
}

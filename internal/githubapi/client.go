// Package githubapi publishes reports to GitHub pull requests using the GitHub CLI.
// TODO: Replace the gh subprocess with a maintained Go GitHub SDK once tokens are always available.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the GitHub CLI executable name.
const DefaultBinary = "gh"

type Client struct {
	logger *slog.Logger
	token  string
	repo   string
	owner  string
	name   string
	bin    string
}

// NewClient returns a client for an owner/repo slug. An empty token leaves
// authentication to gh itself.
func NewClient(logger *slog.Logger, token, repo string) (*Client, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return nil, fmt.Errorf("repository is empty")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("invalid repository slug %q, expected owner/repo", repo)
	}
	return &Client{
		logger: logger,
		token:  strings.TrimSpace(token),
		repo:   repo,
		owner:  parts[0],
		name:   parts[1],
		bin:    DefaultBinary,
	}, nil
}

// WithBinary overrides the gh executable path.
func (c *Client) WithBinary(path string) *Client {
	if strings.TrimSpace(path) != "" {
		c.bin = path
	}
	return c
}

// Marker returns the hidden HTML comment that tags a report comment for key.
func Marker(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "report"
	}
	return fmt.Sprintf("<!-- gradereport:%s -->", key)
}

// FetchIssueComments lists visible comments on an issue or pull request.
func (c *Client) FetchIssueComments(ctx context.Context, number int) ([]IssueComment, error) {
	if number <= 0 {
		return nil, fmt.Errorf("issue number must be positive")
	}
	query := `query($owner: String!, $name: String!, $number: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    issueOrPullRequest(number: $number) {
      ... on Issue { comments(first: 100, after: $after) { ...page } }
      ... on PullRequest { comments(first: 100, after: $after) { ...page } }
    }
  }
}
fragment page on IssueCommentConnection {
  nodes {
    databaseId
    body
    url
    createdAt
    isMinimized
    minimizedReason
    author { login }
  }
  pageInfo { hasNextPage endCursor }
}`

	var out []IssueComment
	var after string
	for {
		resp := issueCommentsResponse{}
		vars := map[string]any{
			"owner":  c.owner,
			"name":   c.name,
			"number": number,
		}
		if after != "" {
			vars["after"] = after
		}
		if err := c.runGraphQL(ctx, query, vars, &resp); err != nil {
			return nil, err
		}
		comments := resp.Data.Repository.IssueOrPullRequest.Comments
		for _, node := range comments.Nodes {
			if node.IsMinimized || strings.TrimSpace(node.MinimizedReason) != "" {
				continue
			}
			out = append(out, IssueComment{
				ID:        node.DatabaseID,
				Author:    strings.TrimSpace(node.Author.Login),
				URL:       strings.TrimSpace(node.URL),
				Body:      strings.TrimSpace(node.Body),
				CreatedAt: strings.TrimSpace(node.CreatedAt),
			})
		}
		if !comments.PageInfo.HasNextPage {
			break
		}
		after = comments.PageInfo.EndCursor
		if after == "" {
			break
		}
	}
	return out, nil
}

// FindReportComment returns the first comment carrying marker, if any.
func (c *Client) FindReportComment(ctx context.Context, number int, marker string) (*IssueComment, error) {
	comments, err := c.FetchIssueComments(ctx, number)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if strings.Contains(comments[i].Body, marker) {
			return &comments[i], nil
		}
	}
	return nil, nil
}

// UpsertReportComment posts body tagged with marker on a pull request, or
// edits the comment a previous run left there. It returns the comment.
func (c *Client) UpsertReportComment(ctx context.Context, number int, marker, body string) (*IssueComment, error) {
	existing, err := c.FindReportComment(ctx, number, marker)
	if err != nil {
		return nil, err
	}
	tagged := marker + "\n" + strings.TrimRight(body, "\n") + "\n"

	var resp restComment
	if existing != nil {
		path := fmt.Sprintf("repos/%s/%s/issues/comments/%d", c.owner, c.name, existing.ID)
		err = c.runREST(ctx, "PATCH", path, map[string]string{"body": tagged}, &resp)
	} else {
		path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", c.owner, c.name, number)
		err = c.runREST(ctx, "POST", path, map[string]string{"body": tagged}, &resp)
	}
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Info("report comment published", "repo", c.repo, "number", number, "url", resp.HTMLURL, "updated", existing != nil)
	}
	return &IssueComment{
		ID:   resp.ID,
		URL:  resp.HTMLURL,
		Body: tagged,
	}, nil
}

func (c *Client) runGraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	args := []string{"api", "graphql", "-f", "query=" + query}
	for key, val := range vars {
		if val == nil {
			continue
		}
		switch v := val.(type) {
		case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
			args = append(args, "-F", fmt.Sprintf("%s=%v", key, v))
			continue
		}
		str := fmt.Sprintf("%v", val)
		if str == "" {
			continue
		}
		args = append(args, "-f", fmt.Sprintf("%s=%s", key, str))
	}
	if c.logger != nil {
		c.logger.Debug("github graphql query", "repo", c.repo)
	}
	if err := c.run(ctx, args, out); err != nil {
		return fmt.Errorf("gh api graphql failed: %w", err)
	}
	return nil
}

func (c *Client) runREST(ctx context.Context, method, path string, fields map[string]string, out any) error {
	args := []string{"api", "-X", method, path}
	for key, val := range fields {
		args = append(args, "-f", fmt.Sprintf("%s=%s", key, val))
	}
	if c.logger != nil {
		c.logger.Debug("github rest call", "method", method, "path", path)
	}
	if err := c.run(ctx, args, out); err != nil {
		return fmt.Errorf("gh api %s %s failed: %w", method, path, err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, args []string, out any) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	env := os.Environ()
	if c.token != "" {
		env = append(env, "GITHUB_TOKEN="+c.token, "GH_TOKEN="+c.token)
	}
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}

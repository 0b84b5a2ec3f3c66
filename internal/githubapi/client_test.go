package githubapi

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const fakeGH = `#!/bin/sh
for arg in "$@"; do printf '%s\n' "$arg" >> "$GH_FAKE_LOG"; done
echo '---' >> "$GH_FAKE_LOG"
if [ "$2" = "graphql" ]; then
  cat "$GH_FAKE_GRAPHQL"
else
  printf '{"id": 77, "html_url": "https://github.com/acme/hw3/pull/5#issuecomment-77"}'
fi
`

// fakeClient returns a client whose gh binary records its arguments and
// replies to GraphQL queries with graphql.
func fakeClient(t *testing.T, graphql string) (*Client, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake gh needs a POSIX shell")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "gh")
	if err := os.WriteFile(bin, []byte(fakeGH), 0o755); err != nil {
		t.Fatalf("write fake gh: %v", err)
	}
	respPath := filepath.Join(dir, "graphql.json")
	if err := os.WriteFile(respPath, []byte(graphql), 0o644); err != nil {
		t.Fatalf("write response: %v", err)
	}
	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("GH_FAKE_LOG", logPath)
	t.Setenv("GH_FAKE_GRAPHQL", respPath)

	c, err := NewClient(nil, "", "acme/hw3")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c.WithBinary(bin), logPath
}

func readCalls(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read calls: %v", err)
	}
	calls := strings.Split(strings.TrimSuffix(string(data), "---\n"), "---\n")
	return calls
}

const noComments = `{"data":{"repository":{"issueOrPullRequest":{"comments":{"nodes":[],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}}}`

const withReportComment = `{"data":{"repository":{"issueOrPullRequest":{"comments":{"nodes":[
  {"databaseId": 10, "body": "looks good", "url": "u10", "author": {"login": "ta"}},
  {"databaseId": 11, "body": "old", "url": "u11", "isMinimized": true, "author": {"login": "bot"}},
  {"databaseId": 12, "body": "<!-- gradereport:report -->\n# Homework 3", "url": "u12", "author": {"login": "bot"}}
],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}}}`

func TestNewClientRejectsBadSlug(t *testing.T) {
	for _, repo := range []string{"", "acme", "acme/", "/hw3", "a/b/c"} {
		if _, err := NewClient(nil, "", repo); err == nil {
			t.Errorf("expected error for %q", repo)
		}
	}
}

func TestMarker(t *testing.T) {
	if got := Marker(""); got != "<!-- gradereport:report -->" {
		t.Fatalf("default marker = %q", got)
	}
	if got := Marker("hw3"); got != "<!-- gradereport:hw3 -->" {
		t.Fatalf("keyed marker = %q", got)
	}
}

func TestFetchIssueCommentsSkipsMinimized(t *testing.T) {
	c, _ := fakeClient(t, withReportComment)

	comments, err := c.FetchIssueComments(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != 10 || comments[1].ID != 12 {
		t.Fatalf("unexpected comments: %+v", comments)
	}
	if comments[0].Author != "ta" {
		t.Fatalf("author = %q", comments[0].Author)
	}
}

func TestUpsertCreatesComment(t *testing.T) {
	c, logPath := fakeClient(t, noComments)

	got, err := c.UpsertReportComment(context.Background(), 5, Marker(""), "# Homework 3\n")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != 77 || !strings.HasSuffix(got.URL, "issuecomment-77") {
		t.Fatalf("unexpected comment: %+v", got)
	}

	calls := readCalls(t, logPath)
	if len(calls) != 2 {
		t.Fatalf("expected graphql + post, got %d calls", len(calls))
	}
	post := calls[1]
	for _, want := range []string{"-X\nPOST\n", "repos/acme/hw3/issues/5/comments\n", "body=<!-- gradereport:report -->\n# Homework 3\n"} {
		if !strings.Contains(post, want) {
			t.Errorf("post call missing %q:\n%s", want, post)
		}
	}
}

func TestUpsertEditsExistingComment(t *testing.T) {
	c, logPath := fakeClient(t, withReportComment)

	if _, err := c.UpsertReportComment(context.Background(), 5, Marker(""), "# Homework 3\n"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	calls := readCalls(t, logPath)
	if len(calls) != 2 {
		t.Fatalf("expected graphql + patch, got %d calls", len(calls))
	}
	patch := calls[1]
	for _, want := range []string{"-X\nPATCH\n", "repos/acme/hw3/issues/comments/12\n"} {
		if !strings.Contains(patch, want) {
			t.Errorf("patch call missing %q:\n%s", want, patch)
		}
	}
}

func TestRunReportsGhFailure(t *testing.T) {
	c, err := NewClient(nil, "", "acme/hw3")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.WithBinary(filepath.Join(t.TempDir(), "missing-gh"))

	if _, err := c.FetchIssueComments(context.Background(), 5); err == nil {
		t.Fatalf("expected error when gh is unavailable")
	}
}

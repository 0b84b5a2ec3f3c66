package githubapi

// IssueComment is a comment on an issue or pull request.
type IssueComment struct {
	// ID is the GitHub comment database ID.
	ID int
	// Author is the GitHub login of the comment author.
	Author string
	// URL is the canonical URL of the comment.
	URL string
	// Body is the raw markdown body of the comment.
	Body string
	// CreatedAt is the ISO timestamp of comment creation.
	CreatedAt string
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type issueCommentsResponse struct {
	Data struct {
		Repository struct {
			IssueOrPullRequest struct {
				Comments struct {
					Nodes    []commentNode `json:"nodes"`
					PageInfo pageInfo      `json:"pageInfo"`
				} `json:"comments"`
			} `json:"issueOrPullRequest"`
		} `json:"repository"`
	} `json:"data"`
}

type commentNode struct {
	DatabaseID      int    `json:"databaseId"`
	Body            string `json:"body"`
	URL             string `json:"url"`
	CreatedAt       string `json:"createdAt"`
	IsMinimized     bool   `json:"isMinimized"`
	MinimizedReason string `json:"minimizedReason"`
	Author          struct {
		Login string `json:"login"`
	} `json:"author"`
}

// restComment is the subset of the REST issue comment payload gradereport reads.
type restComment struct {
	ID      int    `json:"id"`
	HTMLURL string `json:"html_url"`
}

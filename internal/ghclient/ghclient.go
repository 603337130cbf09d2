// Package ghclient implements the GitHub-backed commit source with rate
// limiting and pagination.
package ghclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// pageSize is the GitHub API maximum page size.
const pageSize = 100

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
}

var _ contract.CommitSource = &Client{} // Compile-time check

// NewClient creates a new GitHub client with rate limiting. An empty token
// produces an unauthenticated client subject to GitHub's anonymous limits.
// A non-empty baseURL points the client at a GitHub Enterprise instance.
func NewClient(token string, rateLimit int, baseURL string) (*Client, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configure base URL: %w", err)
		}
	}

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
	}, nil
}

// ListPullRequests implements the contract.CommitSource interface.
// The merged filter is served by the closed state with non-merged PRs
// dropped client-side, since the list API has no merged state. PRs last
// updated before the since bound are skipped without counting toward
// limit, so a backlog of out-of-window activity cannot crowd out
// in-window results.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string, filter schema.PRFilter, since time.Time, limit int) ([]schema.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:     apiState(filter),
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: pageSize,
		},
	}

	var allPRs []schema.PullRequest

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch pull requests: %w", err)
		}

		for _, pr := range prs {
			model := convertPullRequest(pr)

			// Pages arrive most recently updated first, so the first PR
			// past the lower bound ends the scan. A merge inside the
			// window implies an update at or after it.
			if !since.IsZero() && model.UpdatedAt.Before(since) {
				return allPRs, nil
			}

			if filter == schema.MergedPRs && !model.Merged() {
				continue
			}

			// A PR updated recently but merged before the bound, say by a
			// post-merge comment, is out of scope and must not use a slot.
			if !since.IsZero() && model.ActivityTime().Before(since) {
				continue
			}

			allPRs = append(allPRs, model)
			if len(allPRs) >= limit {
				return allPRs, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

// GetPullRequest implements the contract.CommitSource interface.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (schema.PullRequest, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return schema.PullRequest{}, fmt.Errorf("rate limiter: %w", err)
	}

	pr, _, err := c.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return schema.PullRequest{}, fmt.Errorf("fetch pull request #%d: %w", number, err)
	}

	return convertPullRequest(pr), nil
}

// ListPullRequestCommits implements the contract.CommitSource interface.
// Timestamps come from the commit author date, which reflects when the work
// was done rather than when it was pushed or rebased.
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]schema.Commit, error) {
	opts := &github.ListOptions{PerPage: pageSize}

	var allCommits []schema.Commit

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch commits for #%d: %w", number, err)
		}

		for _, commit := range commits {
			allCommits = append(allCommits, schema.Commit{
				SHA:       commit.GetSHA(),
				Author:    commit.GetAuthor().GetLogin(),
				Timestamp: commit.GetCommit().GetAuthor().GetDate().Time,
				Message:   commit.GetCommit().GetMessage(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// ListCommitFiles implements the contract.CommitSource interface.
func (c *Client) ListCommitFiles(ctx context.Context, owner, repo string, sha string) ([]string, error) {
	opts := &github.ListOptions{PerPage: pageSize}

	var files []string

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		commit, resp, err := c.client.Repositories.GetCommit(ctx, owner, repo, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch commit %s: %w", sha, err)
		}

		for _, f := range commit.Files {
			files = append(files, f.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// ListClosedIssues implements the contract.CommitSource interface using the
// search API, which is the only way to filter by close date server-side.
func (c *Client) ListClosedIssues(ctx context.Context, owner, repo string, start, end time.Time) ([]schema.Issue, error) {
	query := fmt.Sprintf("repo:%s/%s is:issue is:closed closed:%s..%s",
		owner, repo, start.Format("2006-01-02"), end.Format("2006-01-02"))

	opts := &github.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: pageSize,
		},
	}

	var allIssues []schema.Issue

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("search closed issues: %w", err)
		}

		for _, issue := range result.Issues {
			// The search index reports PRs as issues too
			if issue.IsPullRequest() {
				continue
			}

			model := schema.Issue{
				Number:    issue.GetNumber(),
				Title:     issue.GetTitle(),
				Author:    issue.GetUser().GetLogin(),
				CreatedAt: issue.GetCreatedAt().Time,
			}
			if issue.ClosedAt != nil {
				model.ClosedAt = issue.ClosedAt.Time
			}

			allIssues = append(allIssues, model)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// apiState maps a PR filter onto the state param the list API accepts.
func apiState(filter schema.PRFilter) string {
	switch filter {
	case schema.OpenPRs:
		return "open"
	case schema.AllPRs:
		return "all"
	default: // merged and closed both list closed PRs
		return "closed"
	}
}

func convertPullRequest(pr *github.PullRequest) schema.PullRequest {
	model := schema.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Author:    pr.GetUser().GetLogin(),
		State:     pr.GetState(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}

	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		model.MergedAt = &t
	}
	if pr.ClosedAt != nil {
		t := pr.ClosedAt.Time
		model.ClosedAt = &t
	}

	return model
}

package core

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/huangsam/prtime/core/bizhours"
	"github.com/huangsam/prtime/core/session"
	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/schema"
)

// GetPREstimateResults fetches pull requests, estimates each one and returns
// the ranked estimates with the repository rollup. This is the embeddable
// form of the 'prs' mode, shared by the CLI and the MCP server.
func GetPREstimateResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager) ([]schema.PREstimate, schema.RepoSummary, error) {
	prs, err := source.ListPullRequests(ctx, cfg.Owner, cfg.Repo, cfg.State, cfg.StartTime, cfg.ResultLimit)
	if err != nil {
		return nil, schema.RepoSummary{}, fmt.Errorf("failed to list pull requests: %w", err)
	}
	prs = filterByWindow(prs, cfg)

	estimates, err := estimatePRs(ctx, cfg, source, mgr, prs)
	if err != nil {
		return nil, schema.RepoSummary{}, err
	}

	ranked := rankPRs(estimates, cfg.ResultLimit)
	return ranked, schema.BuildRepoSummary(ranked), nil
}

// GetPRDetailResults estimates a single pull request and returns its
// session-by-session breakdown.
func GetPRDetailResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager, number int) (schema.PREstimate, []schema.SessionDetail, error) {
	pr, err := source.GetPullRequest(ctx, cfg.Owner, cfg.Repo, number)
	if err != nil {
		return schema.PREstimate{}, nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}

	commits, err := cachedListPullRequestCommits(ctx, source, mgr, cfg, pr)
	if err != nil {
		return schema.PREstimate{}, nil, fmt.Errorf("failed to list commits for #%d: %w", number, err)
	}

	estimate, err := buildEstimate(ctx, cfg, source, mgr, pr, commits)
	if err != nil {
		return schema.PREstimate{}, nil, err
	}
	return estimate, session.Sessions(commits, cfg.SessionConfig()), nil
}

// GetContributorResults groups commits across pull requests by author and
// estimates each author's combined commit stream.
func GetContributorResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager) ([]schema.ContributorEstimate, error) {
	prs, err := source.ListPullRequests(ctx, cfg.Owner, cfg.Repo, cfg.State, cfg.StartTime, cfg.ResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	prs = filterByWindow(prs, cfg)

	commitsByPR, err := fetchCommits(ctx, cfg, source, mgr, prs)
	if err != nil {
		return nil, err
	}

	// Group the commit streams by author. A PR counts toward every author
	// who committed on it, not just the PR opener.
	commitsByAuthor := make(map[string][]schema.Commit)
	prsByAuthor := make(map[string]map[int]struct{})
	for i, pr := range prs {
		for _, c := range commitsByPR[i] {
			author := c.Author
			if author == "" {
				author = pr.Author
			}
			commitsByAuthor[author] = append(commitsByAuthor[author], c)
			if prsByAuthor[author] == nil {
				prsByAuthor[author] = make(map[int]struct{})
			}
			prsByAuthor[author][pr.Number] = struct{}{}
		}
	}

	estimates := make([]schema.ContributorEstimate, 0, len(commitsByAuthor))
	for author, commits := range commitsByAuthor {
		result := session.Estimate(commits, cfg.SessionConfig())
		estimates = append(estimates, schema.ContributorEstimate{
			Author:       author,
			PullRequests: len(prsByAuthor[author]),
			Commits:      result.Commits,
			Sessions:     result.Sessions,
			Hours:        result.Hours(),
		})
	}

	return rankContributors(estimates, cfg.ResultLimit), nil
}

// GetIssueResults fetches issues closed within the configured window and
// estimates each one's resolution time in business hours.
func GetIssueResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource) ([]schema.IssueEstimate, error) {
	issues, err := source.ListClosedIssues(ctx, cfg.Owner, cfg.Repo, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed issues: %w", err)
	}

	zone := cfg.Timezone
	if zone == "" {
		zone = bizhours.DefaultTimezone
	}
	calc := bizhours.NewCalculatorForZone(zone)

	estimates := make([]schema.IssueEstimate, 0, len(issues))
	for _, issue := range issues {
		estimates = append(estimates, schema.IssueEstimate{
			Number:        issue.Number,
			Title:         issue.Title,
			Author:        issue.Author,
			CreatedAt:     issue.CreatedAt,
			ClosedAt:      issue.ClosedAt,
			BusinessHours: calc.Between(issue.CreatedAt, issue.ClosedAt),
		})
	}

	// Chronological by close date reads best for reporting windows
	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].ClosedAt.Before(estimates[j].ClosedAt)
	})
	if len(estimates) > cfg.ResultLimit && cfg.ResultLimit > 0 {
		estimates = estimates[:cfg.ResultLimit]
	}
	return estimates, nil
}

// estimatePRs estimates each pull request concurrently, bounded by the
// configured worker count. Results keep the input order until ranking.
func estimatePRs(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager, prs []schema.PullRequest) ([]schema.PREstimate, error) {
	estimates := make([]schema.PREstimate, len(prs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, pr := range prs {
		g.Go(func() error {
			commits, err := cachedListPullRequestCommits(gctx, source, mgr, cfg, pr)
			if err != nil {
				return fmt.Errorf("failed to list commits for #%d: %w", pr.Number, err)
			}
			estimate, err := buildEstimate(gctx, cfg, source, mgr, pr, commits)
			if err != nil {
				return err
			}
			estimates[i] = estimate
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return estimates, nil
}

// fetchCommits loads the commit list for each pull request concurrently,
// preserving the input order.
func fetchCommits(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager, prs []schema.PullRequest) ([][]schema.Commit, error) {
	commitsByPR := make([][]schema.Commit, len(prs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, pr := range prs {
		g.Go(func() error {
			commits, err := cachedListPullRequestCommits(gctx, source, mgr, cfg, pr)
			if err != nil {
				return fmt.Errorf("failed to list commits for #%d: %w", pr.Number, err)
			}
			commitsByPR[i] = commits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return commitsByPR, nil
}

// buildEstimate converts one pull request's commits into an estimate. When the
// test estimate is requested, the commit file lists are fetched so a secondary
// test-only session estimate can be made.
func buildEstimate(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager, pr schema.PullRequest, commits []schema.Commit) (schema.PREstimate, error) {
	result := session.Estimate(commits, cfg.SessionConfig())

	var testHours float64
	if cfg.TestEstimate && len(commits) > 0 {
		for i := range commits {
			if len(commits[i].Files) > 0 {
				continue // already populated (e.g. from cache)
			}
			files, err := cachedListCommitFiles(ctx, source, mgr, cfg, commits[i].SHA)
			if err != nil {
				return schema.PREstimate{}, fmt.Errorf("failed to list files for %s: %w", commits[i].SHA, err)
			}
			commits[i].Files = files
		}
		testCommits := session.FilterTestCommits(commits, cfg.TestPatterns)
		testHours = session.Estimate(testCommits, cfg.SessionConfig()).Hours()
	}

	return schema.PREstimate{
		Number:    pr.Number,
		Title:     pr.Title,
		Author:    pr.Author,
		MergedAt:  pr.MergedAt,
		Commits:   result.Commits,
		Sessions:  result.Sessions,
		Hours:     result.Hours(),
		TestHours: testHours,
	}, nil
}

// filterByWindow drops pull requests whose activity falls outside the
// configured time range. Merged PRs are anchored on the merge time, others on
// their last update.
func filterByWindow(prs []schema.PullRequest, cfg *contract.Config) []schema.PullRequest {
	filtered := make([]schema.PullRequest, 0, len(prs))
	for _, pr := range prs {
		anchor := pr.ActivityTime()
		if anchor.Before(cfg.StartTime) || anchor.After(cfg.EndTime) {
			continue
		}
		filtered = append(filtered, pr)
	}
	return filtered
}

// rankPRs sorts estimates by estimated hours in descending order and returns
// the top 'limit' entries. Ties keep their fetch order.
func rankPRs(estimates []schema.PREstimate, limit int) []schema.PREstimate {
	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].Hours > estimates[j].Hours
	})
	if len(estimates) > limit && limit > 0 {
		return estimates[:limit]
	}
	return estimates
}

// rankContributors sorts estimates by estimated hours in descending order and
// returns the top 'limit' entries.
func rankContributors(estimates []schema.ContributorEstimate, limit int) []schema.ContributorEstimate {
	sort.SliceStable(estimates, func(i, j int) bool {
		if estimates[i].Hours != estimates[j].Hours {
			return estimates[i].Hours > estimates[j].Hours
		}
		return estimates[i].Author < estimates[j].Author
	})
	if len(estimates) > limit && limit > 0 {
		return estimates[:limit]
	}
	return estimates
}

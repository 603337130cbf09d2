package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/prtime/schema"
)

// MockCommitSource is a mock implementation of CommitSource for testing.
type MockCommitSource struct {
	mock.Mock
}

var _ CommitSource = &MockCommitSource{} // Compile-time check

// ListPullRequests implements the CommitSource interface.
func (m *MockCommitSource) ListPullRequests(ctx context.Context, owner, repo string, filter schema.PRFilter, since time.Time, limit int) ([]schema.PullRequest, error) {
	args := m.Called(ctx, owner, repo, filter, since, limit)
	prs, _ := args.Get(0).([]schema.PullRequest)
	return prs, args.Error(1)
}

// GetPullRequest implements the CommitSource interface.
func (m *MockCommitSource) GetPullRequest(ctx context.Context, owner, repo string, number int) (schema.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	pr, _ := args.Get(0).(schema.PullRequest)
	return pr, args.Error(1)
}

// ListPullRequestCommits implements the CommitSource interface.
func (m *MockCommitSource) ListPullRequestCommits(ctx context.Context, owner, repo string, number int) ([]schema.Commit, error) {
	args := m.Called(ctx, owner, repo, number)
	commits, _ := args.Get(0).([]schema.Commit)
	return commits, args.Error(1)
}

// ListCommitFiles implements the CommitSource interface.
func (m *MockCommitSource) ListCommitFiles(ctx context.Context, owner, repo string, sha string) ([]string, error) {
	args := m.Called(ctx, owner, repo, sha)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

// ListClosedIssues implements the CommitSource interface.
func (m *MockCommitSource) ListClosedIssues(ctx context.Context, owner, repo string, start, end time.Time) ([]schema.Issue, error) {
	args := m.Called(ctx, owner, repo, start, end)
	issues, _ := args.Get(0).([]schema.Issue)
	return issues, args.Error(1)
}

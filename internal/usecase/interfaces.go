package usecase

import (
	"context"

	"decision-log-workflow/internal/entities"
)

// IssueUsecaseInterface abstracts issue-related operations for delivery layer.
type IssueUsecaseInterface interface {
	CreateIssue(ctx context.Context, title, description, authorID string) (*entities.Issue, error)
	Issue(ctx context.Context, id string) (*entities.Issue, error)
	Issues(ctx context.Context) ([]entities.Issue, error)
	UpdateIssueStatus(ctx context.Context, id string, status entities.IssueStatus) (*entities.Issue, error)
}

// BranchUsecaseInterface abstracts branch and commit ledger operations.
type BranchUsecaseInterface interface {
	CreateBranch(ctx context.Context, issueID, name, description, creatorID string) (*entities.Branch, error)
	Branches(ctx context.Context, issueID string) ([]entities.Branch, error)
	AppendCommit(ctx context.Context, branchID string, commit entities.Commit) (*entities.Branch, error)
}

// PullRequestUsecaseInterface abstracts PR lifecycle operations.
type PullRequestUsecaseInterface interface {
	CreatePullRequest(ctx context.Context, pr entities.PullRequest) (*entities.PullRequest, error)
	PullRequest(ctx context.Context, id string) (*entities.PullRequest, error)
	PullRequests(ctx context.Context) ([]entities.PullRequest, error)
	AddReview(ctx context.Context, prID string, review entities.Review) (*entities.PullRequest, error)
	DeleteReview(ctx context.Context, prID, reviewID string) (*entities.PullRequest, error)
	RejectPullRequest(ctx context.Context, prID string) (*entities.PullRequest, error)
	MergePullRequest(ctx context.Context, prID string, input entities.MergeInput) (*entities.DecisionRecord, error)
}

// DecisionUsecaseInterface abstracts decision record reads.
type DecisionUsecaseInterface interface {
	DecisionRecords(ctx context.Context) ([]entities.DecisionRecord, error)
	DecisionRecord(ctx context.Context, id string) (*entities.DecisionRecord, error)
}

// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"decision-log-workflow/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// IssueInterface exposes issue-related operations.
type IssueInterface interface {
	CreateIssue(ctx context.Context, issue entities.Issue) (*entities.Issue, error)
	GetIssue(ctx context.Context, id string) (*entities.Issue, error)
	ListIssues(ctx context.Context) ([]entities.Issue, error)
	UpdateIssueStatus(ctx context.Context, id string, status entities.IssueStatus) (*entities.Issue, error)
}

// BranchInterface exposes branch and commit ledger operations.
type BranchInterface interface {
	CreateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error)
	ListBranches(ctx context.Context, issueID string) ([]entities.Branch, error)
	AppendCommit(ctx context.Context, branchID string, commit entities.Commit) (*entities.Branch, error)
}

// PullRequestInterface exposes PR lifecycle operations. MergePR is the only
// operation with multi-entity side effects and must be atomic across the PR,
// its source branches, the owning issue and the new decision record.
type PullRequestInterface interface {
	CreatePR(ctx context.Context, pr entities.PullRequest) (*entities.PullRequest, error)
	GetPR(ctx context.Context, id string) (*entities.PullRequest, error)
	ListPRs(ctx context.Context) ([]entities.PullRequest, error)
	AddReview(ctx context.Context, prID string, review entities.Review) (*entities.PullRequest, error)
	DeleteReview(ctx context.Context, prID, reviewID string) (*entities.PullRequest, error)
	RejectPR(ctx context.Context, prID string) (*entities.PullRequest, error)
	MergePR(ctx context.Context, prID string, input entities.MergeInput) (*entities.DecisionRecord, error)
}

// DecisionInterface exposes read access to decision records.
type DecisionInterface interface {
	ListDecisions(ctx context.Context) ([]entities.DecisionRecord, error)
	GetDecision(ctx context.Context, id string) (*entities.DecisionRecord, error)
}

// Package domain contains application services orchestrating domain logic by branch.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"decision-log-workflow/internal/entities"

	"github.com/google/uuid"
)

// CreateBranch registers a new active branch with an empty commit list under
// its issue.
func (u *Usecase) CreateBranch(ctx context.Context, issueID, name, description, creatorID string) (*entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issueID == "" || strings.TrimSpace(name) == "" || creatorID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}

	branch := entities.Branch{
		ID:          "br-" + uuid.NewString(),
		IssueID:     issueID,
		Name:        name,
		Description: description,
		Status:      entities.BranchActive,
		Commits:     make([]entities.Commit, 0),
		CreatedAt:   time.Now().UTC(),
	}
	res, err := u.repo.CreateBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	u.log.Infow("branch create", "issue_id", issueID, "branch_id", branch.ID, "name", name, "creator_id", creatorID)
	return res, nil
}

// Branches returns the issue's branches in discussion order.
func (u *Usecase) Branches(ctx context.Context, issueID string) ([]entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if issueID == "" {
		return nil, fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.ListBranches(ctx, issueID)
}

// AppendCommit appends one typed discussion entry to an active branch and
// returns the updated branch snapshot.
func (u *Usecase) AppendCommit(ctx context.Context, branchID string, commit entities.Commit) (*entities.Branch, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if branchID == "" || commit.AuthorID == "" || strings.TrimSpace(commit.Message) == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if !commit.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown commit type %q", entities.ErrInvalidArgument, commit.Type)
	}
	if commit.RepliesTo != nil && commit.Type != entities.CommitNone {
		return nil, fmt.Errorf("%w: a reply must be of type NONE", entities.ErrInvalidArgument)
	}

	commit.ID = "c-" + uuid.NewString()
	commit.CreatedAt = time.Now().UTC()
	return u.repo.AppendCommit(ctx, branchID, commit)
}

// Package domain contains application services orchestrating domain logic by issue.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"decision-log-workflow/internal/entities"

	"github.com/google/uuid"
)

// CreateIssue opens a new decision topic with no branches.
func (u *Usecase) CreateIssue(ctx context.Context, title, description, authorID string) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", entities.ErrInvalidArgument)
	}
	if authorID == "" {
		return nil, fmt.Errorf("%w: author_id is required", entities.ErrInvalidArgument)
	}

	issue := entities.Issue{
		ID:          "iss-" + uuid.NewString(),
		Title:       title,
		Description: description,
		AuthorID:    authorID,
		Status:      entities.IssueOpen,
		CreatedAt:   time.Now().UTC(),
	}
	res, err := u.repo.CreateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}
	u.log.Infow("issue create", "issue_id", issue.ID, "author_id", authorID)
	return res, nil
}

// Issue returns one issue with its branches and commits.
func (u *Usecase) Issue(ctx context.Context, id string) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetIssue(ctx, id)
}

// Issues returns all issues in creation order.
func (u *Usecase) Issues(ctx context.Context) ([]entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ListIssues(ctx)
}

// UpdateIssueStatus is the administrative status override. The normal
// merge/reject path never goes through here; merge closes the issue as a
// side effect.
func (u *Usecase) UpdateIssueStatus(ctx context.Context, id string, status entities.IssueStatus) (*entities.Issue, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: issue_id is required", entities.ErrInvalidArgument)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown issue status %q", entities.ErrInvalidArgument, status)
	}
	return u.repo.UpdateIssueStatus(ctx, id, status)
}

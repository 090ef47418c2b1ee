// Package domain contains application services orchestrating domain logic by pull request.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"decision-log-workflow/internal/entities"

	"github.com/google/uuid"
)

// CreatePullRequest opens a proposal over one or more active branches of an
// issue. Duplicate branch ids are deduplicated preserving first-seen order.
func (u *Usecase) CreatePullRequest(ctx context.Context, pr entities.PullRequest) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if pr.IssueID == "" || strings.TrimSpace(pr.Title) == "" || pr.AuthorID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	pr.BranchIDs = dedupe(pr.BranchIDs)
	if len(pr.BranchIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one branch is required", entities.ErrInvalidArgument)
	}

	pr.ID = "pr-" + uuid.NewString()
	pr.Target = entities.TargetMain
	pr.Status = entities.StatusOpen
	pr.Reviews = make([]entities.Review, 0)
	pr.CreatedAt = time.Now().UTC()

	res, err := u.repo.CreatePR(ctx, pr)
	if err != nil {
		return nil, err
	}
	u.log.Infow("pr create", "pr_id", pr.ID, "issue_id", pr.IssueID, "branches", pr.BranchIDs)
	return res, nil
}

// PullRequest returns one PR with its reviews.
func (u *Usecase) PullRequest(ctx context.Context, id string) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: pull_request_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetPR(ctx, id)
}

// PullRequests returns all PRs in creation order.
func (u *Usecase) PullRequests(ctx context.Context) ([]entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ListPRs(ctx)
}

// AddReview appends a review to an open PR.
func (u *Usecase) AddReview(ctx context.Context, prID string, review entities.Review) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" || review.ReviewerID == "" || strings.TrimSpace(review.Comment) == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if !review.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown review category %q", entities.ErrInvalidArgument, review.Category)
	}

	review.ID = "rev-" + uuid.NewString()
	review.CreatedAt = time.Now().UTC()
	return u.repo.AddReview(ctx, prID, review)
}

// DeleteReview removes a review for correction. Idempotent; allowed on
// terminal PRs.
func (u *Usecase) DeleteReview(ctx context.Context, prID, reviewID string) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" || reviewID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	return u.repo.DeleteReview(ctx, prID, reviewID)
}

// RejectPullRequest declines an open PR, leaving the issue open for further
// branches and proposals.
func (u *Usecase) RejectPullRequest(ctx context.Context, prID string) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" {
		return nil, fmt.Errorf("%w: pull_request_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.RejectPR(ctx, prID)
}

// MergePullRequest resolves an open PR into a decision record. The decision
// content, opinion and at least one non-blank reason are required before any
// mutation happens.
func (u *Usecase) MergePullRequest(ctx context.Context, prID string, input entities.MergeInput) (*entities.DecisionRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if prID == "" || input.ActorID == "" {
		return nil, fmt.Errorf("%w: missing required fields", entities.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.Decision) == "" {
		return nil, fmt.Errorf("%w: decision content is required", entities.ErrInvalidArgument)
	}
	if strings.TrimSpace(input.Opinion) == "" {
		return nil, fmt.Errorf("%w: decision opinion is required", entities.ErrInvalidArgument)
	}
	if len(input.Reasons) == 0 {
		return nil, fmt.Errorf("%w: at least one decision reason is required", entities.ErrInvalidArgument)
	}
	for _, reason := range input.Reasons {
		if strings.TrimSpace(reason) == "" {
			return nil, fmt.Errorf("%w: decision reasons must not be blank", entities.ErrInvalidArgument)
		}
	}

	input.TeamPath = u.teamPath
	record, err := u.repo.MergePR(ctx, prID, input)
	if err != nil {
		return nil, err
	}
	u.log.Infow("pr merge", "pr_id", prID, "record_id", record.ID, "actor_id", input.ActorID)
	return record, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}

// Package entities contains core business entities.
package entities

import "time"

// PullRequestStatus enumerates PR lifecycle states.
type PullRequestStatus string

const (
	// StatusOpen marks PR as open for reviews and resolution.
	StatusOpen PullRequestStatus = "OPEN"
	// StatusMerged marks PR as merged, terminal.
	StatusMerged PullRequestStatus = "MERGED"
	// StatusRejected marks PR as rejected, terminal.
	StatusRejected PullRequestStatus = "REJECTED"
)

// ReviewCategory enumerates reviewer verdict kinds.
type ReviewCategory string

const (
	// ReviewApprove endorses the proposal.
	ReviewApprove ReviewCategory = "APPROVE"
	// ReviewRequestChanges asks for rework.
	ReviewRequestChanges ReviewCategory = "REQUEST_CHANGES"
	// ReviewComment is a neutral remark.
	ReviewComment ReviewCategory = "COMMENT"
)

// Valid reports whether the category is known.
func (c ReviewCategory) Valid() bool {
	switch c {
	case ReviewApprove, ReviewRequestChanges, ReviewComment:
		return true
	}
	return false
}

// Review is a reviewer's comment on a PR. Append/delete only, never edited.
type Review struct {
	ID         string
	ReviewerID string
	Comment    string
	Category   ReviewCategory
	CreatedAt  time.Time
}

// PullRequest is a proposal to resolve an issue using one or more branches.
// BranchIDs is a non-empty ordered set; a PR with more than one entry is a
// multi-branch PR. Status is monotonic OPEN -> MERGED|REJECTED.
type PullRequest struct {
	ID          string
	IssueID     string
	Title       string
	Description string
	AuthorID    string
	BranchIDs   []string
	Target      string
	Status      PullRequestStatus
	Reviews     []Review
	CreatedAt   time.Time
}

// TargetMain is the only merge target.
const TargetMain = "main"

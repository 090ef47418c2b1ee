// Package entities contains core business entities.
package entities

import "time"

// IssueStatus enumerates issue lifecycle states.
type IssueStatus string

const (
	// IssueOpen marks an issue as open for discussion.
	IssueOpen IssueStatus = "OPEN"
	// IssueReview marks an issue as under review.
	IssueReview IssueStatus = "REVIEW"
	// IssueClosed marks an issue as decided, no further activity allowed.
	IssueClosed IssueStatus = "CLOSED"
)

// Valid reports whether the status is a known issue status.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueOpen, IssueReview, IssueClosed:
		return true
	}
	return false
}

// CanTransition reports whether the transition s -> to is allowed.
// Allowed paths: OPEN -> REVIEW, OPEN -> CLOSED, REVIEW -> CLOSED.
func (s IssueStatus) CanTransition(to IssueStatus) bool {
	switch s {
	case IssueOpen:
		return to == IssueReview || to == IssueClosed
	case IssueReview:
		return to == IssueClosed
	}
	return false
}

// Issue is a decision topic owning its branches in discussion order.
type Issue struct {
	ID          string
	Title       string
	Description string
	AuthorID    string
	Status      IssueStatus
	Branches    []Branch
	CreatedAt   time.Time
}

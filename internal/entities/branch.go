// Package entities contains core business entities.
package entities

import (
	"sort"
	"time"
)

// BranchStatus enumerates branch lifecycle states.
type BranchStatus string

const (
	// BranchActive marks a branch as open for commits and PR inclusion.
	BranchActive BranchStatus = "ACTIVE"
	// BranchMerged marks a branch as part of a merged PR.
	BranchMerged BranchStatus = "MERGED"
	// BranchRejected marks a branch as declined via PR rejection naming it.
	BranchRejected BranchStatus = "REJECTED"
)

// CommitType enumerates the discussion entry kinds.
type CommitType string

const (
	// CommitNone is a plain message, also the only kind allowed as a reply.
	CommitNone CommitType = "NONE"
	// CommitInfo is a factual statement.
	CommitInfo CommitType = "INFO"
	// CommitOpinion is a position taken by its author.
	CommitOpinion CommitType = "OPINION"
	// CommitQuestion is a question, the only kind a reply may target.
	CommitQuestion CommitType = "QUESTION"
	// CommitTodo is an action item.
	CommitTodo CommitType = "TODO"
)

// Valid reports whether the commit type is known.
func (t CommitType) Valid() bool {
	switch t {
	case CommitNone, CommitInfo, CommitOpinion, CommitQuestion, CommitTodo:
		return true
	}
	return false
}

// Commit is one immutable typed discussion entry inside a branch.
// RepliesTo, when set, points at a QUESTION commit in the same branch; the
// reply itself must be of type NONE and can never be a reply target.
type Commit struct {
	ID        string
	Type      CommitType
	AuthorID  string
	Message   string
	RepliesTo *string
	CreatedAt time.Time
}

// Branch is a proposed option under exactly one issue. Commits are
// append-only and ordered by creation time.
type Branch struct {
	ID          string
	IssueID     string
	Name        string
	Description string
	Status      BranchStatus
	Commits     []Commit
	CreatedAt   time.Time
}

// EvidenceSet returns the deduplicated union of commits across branches,
// preserving the original commit timestamp order. It is the candidate pool
// for decision evidence.
func EvidenceSet(branches []Branch) []Commit {
	seen := make(map[string]struct{})
	union := make([]Commit, 0)
	for _, b := range branches {
		for _, c := range b.Commits {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			union = append(union, c)
		}
	}
	sort.SliceStable(union, func(i, j int) bool {
		return union[i].CreatedAt.Before(union[j].CreatedAt)
	})
	return union
}

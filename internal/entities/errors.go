// Package entities contains core business entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState signals an operation attempted against an entity whose status forbids it.
	ErrInvalidState = errors.New("invalid state")
	// ErrIssueNotFound signals missing issue.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrBranchNotFound signals missing branch.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrCommitNotFound signals a reply target that does not exist.
	ErrCommitNotFound = errors.New("commit not found")
	// ErrPRNotFound signals missing PR.
	ErrPRNotFound = errors.New("pull request not found")
	// ErrDecisionNotFound signals missing decision record.
	ErrDecisionNotFound = errors.New("decision record not found")
)

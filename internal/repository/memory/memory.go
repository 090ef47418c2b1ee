// Package memory implements the repository in process memory. A single
// store-wide mutex serializes every transition, so a merge's four changes
// (PR, branches, issue, record) are atomic with respect to all concurrent
// operations.
package memory

import (
	"context"
	"fmt"
	"sync"

	"decision-log-workflow/internal/entities"

	"go.uber.org/zap"
)

// Store keeps all aggregates keyed by id. Branches live nested inside their
// owning issue; pull requests reference branches by id only.
type Store struct {
	log *zap.SugaredLogger

	mu          sync.RWMutex
	issues      map[string]*entities.Issue
	issueOrder  []string
	branchIssue map[string]string
	prs         map[string]*entities.PullRequest
	prOrder     []string
	decisions   map[string]*entities.DecisionRecord
	decOrder    []string
}

// New creates an empty in-memory store.
func New(log *zap.SugaredLogger) *Store {
	return &Store{
		log:         log.Named("repo.memory"),
		issues:      make(map[string]*entities.Issue),
		branchIssue: make(map[string]string),
		prs:         make(map[string]*entities.PullRequest),
		decisions:   make(map[string]*entities.DecisionRecord),
	}
}

// OnStart is a no-op for the in-memory backend.
func (s *Store) OnStart(_ context.Context) error { return nil }

// OnStop is a no-op for the in-memory backend.
func (s *Store) OnStop(_ context.Context) error { return nil }

// CreateIssue stores a new issue.
func (s *Store) CreateIssue(_ context.Context, issue entities.Issue) (*entities.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.issues[issue.ID]; exists {
		return nil, fmt.Errorf("%w: issue id %s already exists", entities.ErrInvalidArgument, issue.ID)
	}
	stored := copyIssue(issue)
	s.issues[issue.ID] = &stored
	s.issueOrder = append(s.issueOrder, issue.ID)

	s.log.Infow("issue created", "issue_id", issue.ID)
	out := copyIssue(stored)
	return &out, nil
}

// GetIssue returns an issue with its branches and commits.
func (s *Store) GetIssue(_ context.Context, id string) (*entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	out := copyIssue(*issue)
	return &out, nil
}

// ListIssues returns issues in creation order.
func (s *Store) ListIssues(_ context.Context) ([]entities.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]entities.Issue, 0, len(s.issueOrder))
	for _, id := range s.issueOrder {
		res = append(res, copyIssue(*s.issues[id]))
	}
	return res, nil
}

// UpdateIssueStatus applies an administrative status override, honoring the
// monotonic transition rules.
func (s *Store) UpdateIssueStatus(_ context.Context, id string, status entities.IssueStatus) (*entities.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	if !issue.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: issue %s cannot go %s -> %s", entities.ErrInvalidState, id, issue.Status, status)
	}
	issue.Status = status

	s.log.Infow("issue status updated", "issue_id", id, "status", status)
	out := copyIssue(*issue)
	return &out, nil
}

// CreateBranch registers a new branch under its issue.
func (s *Store) CreateBranch(_ context.Context, branch entities.Branch) (*entities.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[branch.IssueID]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot create branch under closed issue %s", entities.ErrInvalidState, issue.ID)
	}

	stored := copyBranch(branch)
	issue.Branches = append(issue.Branches, stored)
	s.branchIssue[branch.ID] = issue.ID

	s.log.Infow("branch created", "issue_id", issue.ID, "branch_id", branch.ID, "name", branch.Name)
	out := copyBranch(stored)
	return &out, nil
}

// ListBranches returns the issue's branches in discussion order.
func (s *Store) ListBranches(_ context.Context, issueID string) ([]entities.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[issueID]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	res := make([]entities.Branch, 0, len(issue.Branches))
	for _, b := range issue.Branches {
		res = append(res, copyBranch(b))
	}
	return res, nil
}

// AppendCommit appends one commit to an active branch of a non-closed issue
// and returns the updated branch snapshot. Prior commits are never reordered.
func (s *Store) AppendCommit(_ context.Context, branchID string, commit entities.Commit) (*entities.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issueID, ok := s.branchIssue[branchID]
	if !ok {
		return nil, entities.ErrBranchNotFound
	}
	issue, ok := s.issues[issueID]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot commit under closed issue %s", entities.ErrInvalidState, issue.ID)
	}

	branch := s.findBranch(issueID, branchID)
	if branch == nil {
		return nil, entities.ErrBranchNotFound
	}
	if branch.Status != entities.BranchActive {
		return nil, fmt.Errorf("%w: cannot commit to %s branch %s", entities.ErrInvalidState, branch.Status, branchID)
	}
	if commit.RepliesTo != nil {
		if err := validateReply(branch, commit); err != nil {
			return nil, err
		}
	}

	branch.Commits = append(branch.Commits, commit)

	out := copyBranch(*branch)
	return &out, nil
}

// CreatePR stores a new open pull request after validating its sources
// against the current issue state.
func (s *Store) CreatePR(_ context.Context, pr entities.PullRequest) (*entities.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[pr.IssueID]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot open PR under closed issue %s", entities.ErrInvalidState, issue.ID)
	}
	for _, branchID := range pr.BranchIDs {
		owner, ok := s.branchIssue[branchID]
		if !ok {
			return nil, entities.ErrBranchNotFound
		}
		if owner != issue.ID {
			return nil, fmt.Errorf("%w: branch %s does not belong to issue %s", entities.ErrInvalidArgument, branchID, issue.ID)
		}
		branch := s.findBranch(issue.ID, branchID)
		if branch.Status != entities.BranchActive {
			return nil, fmt.Errorf("%w: branch %s is %s, only active branches may join a PR", entities.ErrInvalidState, branchID, branch.Status)
		}
	}

	stored := copyPR(pr)
	s.prs[pr.ID] = &stored
	s.prOrder = append(s.prOrder, pr.ID)

	s.log.Infow("pr created", "pr_id", pr.ID, "issue_id", pr.IssueID, "branches", pr.BranchIDs)
	out := copyPR(stored)
	return &out, nil
}

// GetPR returns a pull request with its reviews.
func (s *Store) GetPR(_ context.Context, id string) (*entities.PullRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pr, ok := s.prs[id]
	if !ok {
		return nil, entities.ErrPRNotFound
	}
	out := copyPR(*pr)
	return &out, nil
}

// ListPRs returns pull requests in creation order.
func (s *Store) ListPRs(_ context.Context) ([]entities.PullRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]entities.PullRequest, 0, len(s.prOrder))
	for _, id := range s.prOrder {
		res = append(res, copyPR(*s.prs[id]))
	}
	return res, nil
}

// AddReview appends a review to an open PR.
func (s *Store) AddReview(_ context.Context, prID string, review entities.Review) (*entities.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return nil, entities.ErrPRNotFound
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot review a %s PR", entities.ErrInvalidState, pr.Status)
	}
	pr.Reviews = append(pr.Reviews, review)

	out := copyPR(*pr)
	return &out, nil
}

// DeleteReview removes a review if present. It is idempotent and allowed
// regardless of PR status: correcting a typo does not reopen a decision.
func (s *Store) DeleteReview(_ context.Context, prID, reviewID string) (*entities.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return nil, entities.ErrPRNotFound
	}
	kept := pr.Reviews[:0]
	for _, r := range pr.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	pr.Reviews = kept

	out := copyPR(*pr)
	return &out, nil
}

// RejectPR declines an open PR. Branches and issue are untouched so the
// issue stays open for further proposals.
func (s *Store) RejectPR(_ context.Context, prID string) (*entities.PullRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return nil, entities.ErrPRNotFound
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot reject a %s PR", entities.ErrInvalidState, pr.Status)
	}
	pr.Status = entities.StatusRejected

	s.log.Infow("pr rejected", "pr_id", prID)
	out := copyPR(*pr)
	return &out, nil
}

// MergePR resolves an open PR: the PR becomes MERGED, every source branch
// becomes MERGED, the owning issue becomes CLOSED and exactly one decision
// record is synthesized. Non-source branches keep their status; the closed
// issue refuses further commits regardless.
func (s *Store) MergePR(_ context.Context, prID string, input entities.MergeInput) (*entities.DecisionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.prs[prID]
	if !ok {
		return nil, entities.ErrPRNotFound
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot merge a %s PR", entities.ErrInvalidState, pr.Status)
	}
	issue, ok := s.issues[pr.IssueID]
	if !ok {
		return nil, entities.ErrIssueNotFound
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: issue %s is already closed", entities.ErrInvalidState, issue.ID)
	}

	sources := make([]*entities.Branch, 0, len(pr.BranchIDs))
	snapshot := make([]entities.Branch, 0, len(pr.BranchIDs))
	for _, branchID := range pr.BranchIDs {
		branch := s.findBranch(issue.ID, branchID)
		if branch == nil {
			return nil, entities.ErrBranchNotFound
		}
		sources = append(sources, branch)
		snapshot = append(snapshot, copyBranch(*branch))
	}

	record := entities.SynthesizeDecision(*issue, *pr, snapshot, input)

	pr.Status = entities.StatusMerged
	for _, branch := range sources {
		branch.Status = entities.BranchMerged
	}
	issue.Status = entities.IssueClosed
	s.decisions[record.ID] = &record
	s.decOrder = append(s.decOrder, record.ID)

	s.log.Infow("pr merged", "pr_id", prID, "issue_id", issue.ID, "record_id", record.ID)
	out := copyRecord(record)
	return &out, nil
}

// ListDecisions returns decision records in creation order.
func (s *Store) ListDecisions(_ context.Context) ([]entities.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]entities.DecisionRecord, 0, len(s.decOrder))
	for _, id := range s.decOrder {
		res = append(res, copyRecord(*s.decisions[id]))
	}
	return res, nil
}

// GetDecision returns one decision record.
func (s *Store) GetDecision(_ context.Context, id string) (*entities.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.decisions[id]
	if !ok {
		return nil, entities.ErrDecisionNotFound
	}
	out := copyRecord(*rec)
	return &out, nil
}

// findBranch locates a branch inside its issue. Callers hold s.mu.
func (s *Store) findBranch(issueID, branchID string) *entities.Branch {
	issue, ok := s.issues[issueID]
	if !ok {
		return nil
	}
	for i := range issue.Branches {
		if issue.Branches[i].ID == branchID {
			return &issue.Branches[i]
		}
	}
	return nil
}

// validateReply enforces the one-level reply relation: a reply is a NONE
// commit targeting a QUESTION commit in the same branch.
func validateReply(branch *entities.Branch, commit entities.Commit) error {
	var parent *entities.Commit
	for i := range branch.Commits {
		if branch.Commits[i].ID == *commit.RepliesTo {
			parent = &branch.Commits[i]
			break
		}
	}
	if parent == nil {
		return fmt.Errorf("%w: reply target %s", entities.ErrCommitNotFound, *commit.RepliesTo)
	}
	if parent.Type != entities.CommitQuestion {
		return fmt.Errorf("%w: replies may only target QUESTION commits", entities.ErrInvalidArgument)
	}
	if parent.RepliesTo != nil {
		return fmt.Errorf("%w: replies to replies are not allowed", entities.ErrInvalidArgument)
	}
	return nil
}

func copyIssue(src entities.Issue) entities.Issue {
	out := src
	out.Branches = make([]entities.Branch, 0, len(src.Branches))
	for _, b := range src.Branches {
		out.Branches = append(out.Branches, copyBranch(b))
	}
	return out
}

func copyBranch(src entities.Branch) entities.Branch {
	out := src
	out.Commits = append([]entities.Commit(nil), src.Commits...)
	return out
}

func copyPR(src entities.PullRequest) entities.PullRequest {
	out := src
	out.BranchIDs = append([]string(nil), src.BranchIDs...)
	out.Reviews = append([]entities.Review(nil), src.Reviews...)
	return out
}

func copyRecord(src entities.DecisionRecord) entities.DecisionRecord {
	out := src
	out.DecisionReasons = append([]string(nil), src.DecisionReasons...)
	out.PRRationale = append([]string(nil), src.PRRationale...)
	out.EvidenceSummary = append([]string(nil), src.EvidenceSummary...)
	out.MergedBranchIDs = append([]string(nil), src.MergedBranchIDs...)
	out.ReviewComments = append([]string(nil), src.ReviewComments...)
	return out
}

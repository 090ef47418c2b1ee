// Package api defines the transport DTOs and route registration for the
// decision workflow HTTP surface.
package api

import "time"

// ErrorResponseErrorCode is a machine-readable failure code.
type ErrorResponseErrorCode string

const (
	// NOTFOUND signals a missing resource.
	NOTFOUND ErrorResponseErrorCode = "NOT_FOUND"
	// INVALIDARGUMENT signals malformed or missing input.
	INVALIDARGUMENT ErrorResponseErrorCode = "INVALID_ARGUMENT"
	// INVALIDSTATE signals an operation forbidden by current entity status.
	INVALIDSTATE ErrorResponseErrorCode = "INVALID_STATE"
	// INTERNAL signals an unexpected server failure.
	INTERNAL ErrorResponseErrorCode = "INTERNAL"
)

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// Commit is one discussion entry inside a branch.
type Commit struct {
	CommitId  string    `json:"commit_id"`
	Type      string    `json:"type"`
	AuthorId  string    `json:"author_id"`
	Message   string    `json:"message"`
	RepliesTo *string   `json:"replies_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Branch is a proposed option under an issue.
type Branch struct {
	BranchId    string    `json:"branch_id"`
	IssueId     string    `json:"issue_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Commits     []Commit  `json:"commits"`
	CreatedAt   time.Time `json:"created_at"`
}

// Issue is a decision topic with its branches.
type Issue struct {
	IssueId     string    `json:"issue_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AuthorId    string    `json:"author_id"`
	Status      string    `json:"status"`
	Branches    []Branch  `json:"branches"`
	CreatedAt   time.Time `json:"created_at"`
}

// Review is reviewer feedback on a PR.
type Review struct {
	ReviewId   string    `json:"review_id"`
	ReviewerId string    `json:"reviewer_id"`
	Comment    string    `json:"comment"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
}

// PullRequest is a proposal to resolve an issue.
type PullRequest struct {
	PullRequestId string    `json:"pull_request_id"`
	IssueId       string    `json:"issue_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	AuthorId      string    `json:"author_id"`
	BranchIds     []string  `json:"branch_ids"`
	Target        string    `json:"target"`
	Status        string    `json:"status"`
	Reviews       []Review  `json:"reviews"`
	CreatedAt     time.Time `json:"created_at"`
}

// DecisionRecord is the immutable merge artifact.
type DecisionRecord struct {
	DecisionId      string    `json:"decision_id"`
	IssueId         string    `json:"issue_id"`
	IssueTitle      string    `json:"issue_title"`
	TeamPath        string    `json:"team_path"`
	Decision        string    `json:"decision"`
	DecisionMaker   string    `json:"decision_maker"`
	DecisionOpinion string    `json:"decision_opinion"`
	DecisionReasons []string  `json:"decision_reasons"`
	PrRationale     []string  `json:"pr_rationale"`
	EvidenceSummary []string  `json:"evidence_summary"`
	MergedBranchIds []string  `json:"merged_branch_ids"`
	PrId            string    `json:"pr_id"`
	ReviewComments  []string  `json:"review_comments"`
	CreatedAt       time.Time `json:"created_at"`
}

// PostIssueCreateJSONRequestBody is the createIssue payload.
type PostIssueCreateJSONRequestBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AuthorId    string `json:"author_id"`
}

// PutIssueStatusJSONRequestBody is the updateIssueStatus payload.
type PutIssueStatusJSONRequestBody struct {
	Status string `json:"status"`
}

// PostBranchCreateJSONRequestBody is the createBranch payload.
type PostBranchCreateJSONRequestBody struct {
	IssueId     string `json:"issue_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatorId   string `json:"creator_id"`
}

// PostBranchCommitJSONRequestBody is the appendCommit payload.
type PostBranchCommitJSONRequestBody struct {
	Type      string  `json:"type"`
	AuthorId  string  `json:"author_id"`
	Message   string  `json:"message"`
	RepliesTo *string `json:"replies_to,omitempty"`
}

// PostPullRequestCreateJSONRequestBody is the createPR payload.
type PostPullRequestCreateJSONRequestBody struct {
	IssueId     string   `json:"issue_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AuthorId    string   `json:"author_id"`
	BranchIds   []string `json:"branch_ids"`
}

// PostPullRequestReviewJSONRequestBody is the addReview payload.
type PostPullRequestReviewJSONRequestBody struct {
	ReviewerId string `json:"reviewer_id"`
	Comment    string `json:"comment"`
	Category   string `json:"category"`
}

// PostPullRequestMergeJSONRequestBody is the merge payload.
type PostPullRequestMergeJSONRequestBody struct {
	ActorId           string   `json:"actor_id"`
	DecisionContent   string   `json:"decision_content"`
	DecisionOpinion   string   `json:"decision_opinion"`
	DecisionReasons   []string `json:"decision_reasons"`
	SelectedCommitIds []string `json:"selected_commit_ids"`
}

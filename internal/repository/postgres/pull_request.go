package postgres

import (
	"context"
	"errors"
	"fmt"

	"decision-log-workflow/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertPRQuery       = `INSERT INTO pull_requests(id, issue_id, title, description, author_id, target, status, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	insertPRBranchQuery = `INSERT INTO pr_branches(pr_id, branch_id, position) VALUES ($1,$2,$3)`
	selectPRQuery       = `SELECT id, issue_id, title, description, author_id, target, status, created_at FROM pull_requests WHERE id=$1`
	selectPRForUpdate   = `SELECT id, issue_id, title, description, author_id, target, status, created_at FROM pull_requests WHERE id=$1 FOR UPDATE`
	listPRsQuery        = `SELECT id, issue_id, title, description, author_id, target, status, created_at FROM pull_requests ORDER BY created_at, id`
	selectPRBranches    = `SELECT branch_id FROM pr_branches WHERE pr_id=$1 ORDER BY position`
	updatePRStatusQuery = `UPDATE pull_requests SET status=$2 WHERE id=$1`
	selectReviewsQuery  = `SELECT id, reviewer_id, comment, category, created_at FROM reviews WHERE pr_id=$1 ORDER BY created_at, id`
	insertReviewQuery   = `INSERT INTO reviews(id, pr_id, reviewer_id, comment, category, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	deleteReviewQuery   = `DELETE FROM reviews WHERE pr_id=$1 AND id=$2`
	updateBranchMerged  = `UPDATE branches SET status=$2 WHERE id=$1`
	closeIssueQuery     = `UPDATE issues SET status='CLOSED' WHERE id=$1`
	insertDecisionQuery = `
INSERT INTO decision_records(
    id, issue_id, issue_title, team_path, decision, decision_maker, decision_opinion,
    decision_reasons, pr_rationale, evidence_summary, merged_branch_ids, pr_id, review_comments, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
)

// CreatePR allocates a PR in OPEN state after checking every source branch
// against current issue state, under the issue lock.
func (p *Postgres) CreatePR(ctx context.Context, pr entities.PullRequest) (res *entities.PullRequest, err error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	issue, err := p.scanIssue(ctx, tx, selectIssueForUpdateQuery, pr.IssueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot open PR under closed issue %s", entities.ErrInvalidState, issue.ID)
	}

	for _, branchID := range pr.BranchIDs {
		branch, err := p.scanBranch(ctx, tx, selectBranchQuery, branchID)
		if err != nil {
			return nil, err
		}
		if branch.IssueID != issue.ID {
			return nil, fmt.Errorf("%w: branch %s does not belong to issue %s", entities.ErrInvalidArgument, branchID, issue.ID)
		}
		if branch.Status != entities.BranchActive {
			return nil, fmt.Errorf("%w: branch %s is %s, only active branches may join a PR", entities.ErrInvalidState, branchID, branch.Status)
		}
	}

	if _, err := tx.Exec(ctx, insertPRQuery,
		pr.ID, pr.IssueID, pr.Title, pr.Description, pr.AuthorID, pr.Target, pr.Status, pr.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: pr id %s already exists", entities.ErrInvalidArgument, pr.ID)
		}
		p.log.Errorw("failed to insert pull request", "error", err, "pr_id", pr.ID)
		return nil, fmt.Errorf("insert pr: %w", err)
	}
	for i, branchID := range pr.BranchIDs {
		if _, err := tx.Exec(ctx, insertPRBranchQuery, pr.ID, branchID, i); err != nil {
			return nil, fmt.Errorf("insert pr branch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("pr created", "pr_id", pr.ID, "issue_id", pr.IssueID, "branches", pr.BranchIDs)
	out := pr
	out.Reviews = make([]entities.Review, 0)
	return &out, nil
}

// GetPR fetches one pull request with its branch set and reviews.
func (p *Postgres) GetPR(ctx context.Context, id string) (*entities.PullRequest, error) {
	return p.readPR(ctx, p.db, selectPRQuery, id)
}

// ListPRs returns pull requests in creation order.
func (p *Postgres) ListPRs(ctx context.Context) ([]entities.PullRequest, error) {
	rows, err := p.db.Query(ctx, listPRsQuery)
	if err != nil {
		return nil, fmt.Errorf("list prs: %w", err)
	}
	defer rows.Close()

	prs := make([]entities.PullRequest, 0)
	for rows.Next() {
		var pr entities.PullRequest
		if err := rows.Scan(&pr.ID, &pr.IssueID, &pr.Title, &pr.Description, &pr.AuthorID, &pr.Target, &pr.Status, &pr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pr: %w", err)
		}
		prs = append(prs, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prs: %w", err)
	}

	for i := range prs {
		if err := p.fillPR(ctx, p.db, &prs[i]); err != nil {
			return nil, err
		}
	}
	return prs, nil
}

// AddReview appends a review to an open PR.
func (p *Postgres) AddReview(ctx context.Context, prID string, review entities.Review) (*entities.PullRequest, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pr, err := p.readPR(ctx, tx, selectPRForUpdate, prID)
	if err != nil {
		return nil, err
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot review a %s PR", entities.ErrInvalidState, pr.Status)
	}

	if _, err := tx.Exec(ctx, insertReviewQuery,
		review.ID, prID, review.ReviewerID, review.Comment, review.Category, review.CreatedAt); err != nil {
		p.log.Errorw("failed to insert review", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	pr.Reviews = append(pr.Reviews, review)
	return pr, nil
}

// DeleteReview removes a review if present. Idempotent; allowed regardless
// of PR status.
func (p *Postgres) DeleteReview(ctx context.Context, prID, reviewID string) (*entities.PullRequest, error) {
	pr, err := p.readPR(ctx, p.db, selectPRQuery, prID)
	if err != nil {
		return nil, err
	}
	if _, err := p.db.Exec(ctx, deleteReviewQuery, prID, reviewID); err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}
	kept := make([]entities.Review, 0, len(pr.Reviews))
	for _, r := range pr.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	pr.Reviews = kept
	return pr, nil
}

// RejectPR declines an open PR, leaving branches and issue untouched.
func (p *Postgres) RejectPR(ctx context.Context, prID string) (*entities.PullRequest, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pr, err := p.readPR(ctx, tx, selectPRForUpdate, prID)
	if err != nil {
		return nil, err
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot reject a %s PR", entities.ErrInvalidState, pr.Status)
	}

	if _, err := tx.Exec(ctx, updatePRStatusQuery, prID, entities.StatusRejected); err != nil {
		p.log.Errorw("failed to reject pr", "error", err, "pr_id", prID)
		return nil, fmt.Errorf("reject pr: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	pr.Status = entities.StatusRejected
	p.log.Infow("pr rejected", "pr_id", prID)
	return pr, nil
}

// MergePR resolves an open PR in one transaction: the issue row is locked
// first, then the PR, branches flip to MERGED, the issue to CLOSED and
// exactly one decision record is inserted. Either all four changes commit or
// none do. A concurrent merge on the same issue observes CLOSED and fails.
func (p *Postgres) MergePR(ctx context.Context, prID string, input entities.MergeInput) (*entities.DecisionRecord, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var issueID string
	if err := tx.QueryRow(ctx, `SELECT issue_id FROM pull_requests WHERE id=$1`, prID).Scan(&issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPRNotFound
		}
		return nil, fmt.Errorf("pr issue lookup: %w", err)
	}

	issue, err := p.scanIssue(ctx, tx, selectIssueForUpdateQuery, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: issue %s is already closed", entities.ErrInvalidState, issue.ID)
	}

	pr, err := p.readPR(ctx, tx, selectPRForUpdate, prID)
	if err != nil {
		return nil, err
	}
	if pr.Status != entities.StatusOpen {
		return nil, fmt.Errorf("%w: cannot merge a %s PR", entities.ErrInvalidState, pr.Status)
	}

	branches := make([]entities.Branch, 0, len(pr.BranchIDs))
	for _, branchID := range pr.BranchIDs {
		branch, err := p.scanBranch(ctx, tx, selectBranchForUpdateQuery, branchID)
		if err != nil {
			return nil, err
		}
		commits, err := p.loadCommits(ctx, tx, branchID)
		if err != nil {
			return nil, err
		}
		branch.Commits = commits
		branches = append(branches, *branch)
	}

	record := entities.SynthesizeDecision(*issue, *pr, branches, input)

	if _, err := tx.Exec(ctx, updatePRStatusQuery, prID, entities.StatusMerged); err != nil {
		return nil, fmt.Errorf("merge pr: %w", err)
	}
	for _, branch := range branches {
		if _, err := tx.Exec(ctx, updateBranchMerged, branch.ID, entities.BranchMerged); err != nil {
			return nil, fmt.Errorf("merge branch: %w", err)
		}
	}
	if _, err := tx.Exec(ctx, closeIssueQuery, issue.ID); err != nil {
		return nil, fmt.Errorf("close issue: %w", err)
	}
	if _, err := tx.Exec(ctx, insertDecisionQuery,
		record.ID, record.IssueID, record.IssueTitle, record.TeamPath, record.Decision,
		record.DecisionMaker, record.DecisionOpinion, record.DecisionReasons, record.PRRationale,
		record.EvidenceSummary, record.MergedBranchIDs, record.PRID, record.ReviewComments, record.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: pr %s already has a decision record", entities.ErrInvalidState, prID)
		}
		return nil, fmt.Errorf("insert decision record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("pr merged", "pr_id", prID, "issue_id", issue.ID, "record_id", record.ID)
	return &record, nil
}

func (p *Postgres) readPR(ctx context.Context, q querier, query, id string) (*entities.PullRequest, error) {
	var pr entities.PullRequest
	if err := q.QueryRow(ctx, query, id).
		Scan(&pr.ID, &pr.IssueID, &pr.Title, &pr.Description, &pr.AuthorID, &pr.Target, &pr.Status, &pr.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPRNotFound
		}
		return nil, fmt.Errorf("get pr: %w", err)
	}
	if err := p.fillPR(ctx, q, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (p *Postgres) fillPR(ctx context.Context, q querier, pr *entities.PullRequest) error {
	rows, err := q.Query(ctx, selectPRBranches, pr.ID)
	if err != nil {
		return fmt.Errorf("select pr branches: %w", err)
	}
	defer rows.Close()
	pr.BranchIDs = make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan pr branch: %w", err)
		}
		pr.BranchIDs = append(pr.BranchIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate pr branches: %w", err)
	}

	reviewRows, err := q.Query(ctx, selectReviewsQuery, pr.ID)
	if err != nil {
		return fmt.Errorf("select reviews: %w", err)
	}
	defer reviewRows.Close()
	pr.Reviews = make([]entities.Review, 0)
	for reviewRows.Next() {
		var r entities.Review
		if err := reviewRows.Scan(&r.ID, &r.ReviewerID, &r.Comment, &r.Category, &r.CreatedAt); err != nil {
			return fmt.Errorf("scan review: %w", err)
		}
		pr.Reviews = append(pr.Reviews, r)
	}
	if err := reviewRows.Err(); err != nil {
		return fmt.Errorf("iterate reviews: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"decision-log-workflow/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertBranchQuery = `INSERT INTO branches(id, issue_id, name, description, status, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	selectBranchQuery          = `SELECT id, issue_id, name, description, status, created_at FROM branches WHERE id=$1`
	selectBranchIssueQuery     = `SELECT issue_id FROM branches WHERE id=$1`
	selectBranchForUpdateQuery = `SELECT id, issue_id, name, description, status, created_at FROM branches WHERE id=$1 FOR UPDATE`
	listBranchesQuery          = `SELECT id, issue_id, name, description, status, created_at FROM branches WHERE issue_id=$1 ORDER BY created_at, id`
	insertCommitQuery          = `INSERT INTO commits(id, branch_id, type, author_id, message, replies_to, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`
	selectCommitsQuery         = `SELECT id, type, author_id, message, replies_to, created_at FROM commits WHERE branch_id=$1 ORDER BY created_at, seq`
	selectReplyTargetQuery     = `SELECT type, replies_to FROM commits WHERE id=$1 AND branch_id=$2`
)

// CreateBranch registers a new branch under its issue. The issue row is
// locked so a concurrent merge cannot close the issue mid-flight.
func (p *Postgres) CreateBranch(ctx context.Context, branch entities.Branch) (*entities.Branch, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	issue, err := p.scanIssue(ctx, tx, selectIssueForUpdateQuery, branch.IssueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot create branch under closed issue %s", entities.ErrInvalidState, issue.ID)
	}

	if _, err := tx.Exec(ctx, insertBranchQuery,
		branch.ID, branch.IssueID, branch.Name, branch.Description, branch.Status, branch.CreatedAt); err != nil {
		p.log.Errorw("failed to insert branch", "error", err, "branch_id", branch.ID)
		return nil, fmt.Errorf("insert branch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("branch created", "issue_id", branch.IssueID, "branch_id", branch.ID, "name", branch.Name)
	out := branch
	out.Commits = make([]entities.Commit, 0)
	return &out, nil
}

// ListBranches returns the issue's branches with commits in discussion order.
func (p *Postgres) ListBranches(ctx context.Context, issueID string) ([]entities.Branch, error) {
	if _, err := p.scanIssue(ctx, p.db, selectIssueQuery, issueID); err != nil {
		return nil, err
	}
	return p.loadBranches(ctx, p.db, issueID)
}

// AppendCommit appends one commit to an active branch of a non-closed issue
// and returns the updated branch snapshot. The issue row is locked before
// the branch row, in the same order merge takes them.
func (p *Postgres) AppendCommit(ctx context.Context, branchID string, commit entities.Commit) (*entities.Branch, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var issueID string
	if err := tx.QueryRow(ctx, selectBranchIssueQuery, branchID).Scan(&issueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrBranchNotFound
		}
		return nil, fmt.Errorf("branch issue lookup: %w", err)
	}
	issue, err := p.scanIssue(ctx, tx, selectIssueForUpdateQuery, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == entities.IssueClosed {
		return nil, fmt.Errorf("%w: cannot commit under closed issue %s", entities.ErrInvalidState, issue.ID)
	}

	branch, err := p.scanBranch(ctx, tx, selectBranchForUpdateQuery, branchID)
	if err != nil {
		return nil, err
	}
	if branch.Status != entities.BranchActive {
		return nil, fmt.Errorf("%w: cannot commit to %s branch %s", entities.ErrInvalidState, branch.Status, branchID)
	}

	if commit.RepliesTo != nil {
		var parentType entities.CommitType
		var parentReply *string
		if err := tx.QueryRow(ctx, selectReplyTargetQuery, *commit.RepliesTo, branchID).Scan(&parentType, &parentReply); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: reply target %s", entities.ErrCommitNotFound, *commit.RepliesTo)
			}
			return nil, fmt.Errorf("reply target lookup: %w", err)
		}
		if parentType != entities.CommitQuestion {
			return nil, fmt.Errorf("%w: replies may only target QUESTION commits", entities.ErrInvalidArgument)
		}
		if parentReply != nil {
			return nil, fmt.Errorf("%w: replies to replies are not allowed", entities.ErrInvalidArgument)
		}
	}

	if _, err := tx.Exec(ctx, insertCommitQuery,
		commit.ID, branchID, commit.Type, commit.AuthorID, commit.Message, commit.RepliesTo, commit.CreatedAt); err != nil {
		p.log.Errorw("failed to insert commit", "error", err, "branch_id", branchID)
		return nil, fmt.Errorf("insert commit: %w", err)
	}

	commits, err := p.loadCommits(ctx, tx, branchID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	branch.Commits = commits
	return branch, nil
}

func (p *Postgres) scanBranch(ctx context.Context, q querier, query, id string) (*entities.Branch, error) {
	var b entities.Branch
	if err := q.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.IssueID, &b.Name, &b.Description, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrBranchNotFound
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

func (p *Postgres) loadBranches(ctx context.Context, q querier, issueID string) ([]entities.Branch, error) {
	rows, err := q.Query(ctx, listBranchesQuery, issueID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0)
	for rows.Next() {
		var b entities.Branch
		if err := rows.Scan(&b.ID, &b.IssueID, &b.Name, &b.Description, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	for i := range branches {
		commits, err := p.loadCommits(ctx, q, branches[i].ID)
		if err != nil {
			return nil, err
		}
		branches[i].Commits = commits
	}
	return branches, nil
}

func (p *Postgres) loadCommits(ctx context.Context, q querier, branchID string) ([]entities.Commit, error) {
	rows, err := q.Query(ctx, selectCommitsQuery, branchID)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	defer rows.Close()

	commits := make([]entities.Commit, 0)
	for rows.Next() {
		var c entities.Commit
		if err := rows.Scan(&c.ID, &c.Type, &c.AuthorID, &c.Message, &c.RepliesTo, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		commits = append(commits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}
	return commits, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"decision-log-workflow/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertIssueQuery = `INSERT INTO issues(id, title, description, author_id, status, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	selectIssueQuery = `SELECT id, title, description, author_id, status, created_at FROM issues WHERE id=$1`
	// The FOR UPDATE on the issue row is the per-aggregate serialization
	// point shared by branch creation, PR creation and merge.
	selectIssueForUpdateQuery = `SELECT id, title, description, author_id, status, created_at FROM issues WHERE id=$1 FOR UPDATE`
	listIssuesQuery           = `SELECT id, title, description, author_id, status, created_at FROM issues ORDER BY created_at, id`
	updateIssueStatusQuery    = `UPDATE issues SET status=$2 WHERE id=$1`
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateIssue inserts a new issue.
func (p *Postgres) CreateIssue(ctx context.Context, issue entities.Issue) (*entities.Issue, error) {
	if _, err := p.db.Exec(ctx, insertIssueQuery,
		issue.ID, issue.Title, issue.Description, issue.AuthorID, issue.Status, issue.CreatedAt); err != nil {
		p.log.Errorw("failed to insert issue", "error", err, "issue_id", issue.ID)
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	p.log.Infow("issue created", "issue_id", issue.ID)
	out := issue
	out.Branches = make([]entities.Branch, 0)
	return &out, nil
}

// GetIssue fetches an issue with its branches and commits.
func (p *Postgres) GetIssue(ctx context.Context, id string) (*entities.Issue, error) {
	issue, err := p.scanIssue(ctx, p.db, selectIssueQuery, id)
	if err != nil {
		return nil, err
	}
	branches, err := p.loadBranches(ctx, p.db, id)
	if err != nil {
		return nil, err
	}
	issue.Branches = branches
	return issue, nil
}

// ListIssues returns all issues with their branches in creation order.
func (p *Postgres) ListIssues(ctx context.Context) ([]entities.Issue, error) {
	rows, err := p.db.Query(ctx, listIssuesQuery)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	issues := make([]entities.Issue, 0)
	for rows.Next() {
		var issue entities.Issue
		if err := rows.Scan(&issue.ID, &issue.Title, &issue.Description, &issue.AuthorID, &issue.Status, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}

	for i := range issues {
		branches, err := p.loadBranches(ctx, p.db, issues[i].ID)
		if err != nil {
			return nil, err
		}
		issues[i].Branches = branches
	}
	return issues, nil
}

// UpdateIssueStatus applies an administrative status override under the
// issue lock, honoring the monotonic transition rules.
func (p *Postgres) UpdateIssueStatus(ctx context.Context, id string, status entities.IssueStatus) (*entities.Issue, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	issue, err := p.scanIssue(ctx, tx, selectIssueForUpdateQuery, id)
	if err != nil {
		return nil, err
	}
	if !issue.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: issue %s cannot go %s -> %s", entities.ErrInvalidState, id, issue.Status, status)
	}

	if _, err := tx.Exec(ctx, updateIssueStatusQuery, id, status); err != nil {
		p.log.Errorw("failed to update issue status", "error", err, "issue_id", id)
		return nil, fmt.Errorf("update issue status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	issue.Status = status
	branches, err := p.loadBranches(ctx, p.db, id)
	if err != nil {
		return nil, err
	}
	issue.Branches = branches

	p.log.Infow("issue status updated", "issue_id", id, "status", status)
	return issue, nil
}

func (p *Postgres) scanIssue(ctx context.Context, q querier, query, id string) (*entities.Issue, error) {
	var issue entities.Issue
	if err := q.QueryRow(ctx, query, id).
		Scan(&issue.ID, &issue.Title, &issue.Description, &issue.AuthorID, &issue.Status, &issue.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrIssueNotFound
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &issue, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"decision-log-workflow/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectDecisionQuery = `
SELECT id, issue_id, issue_title, team_path, decision, decision_maker, decision_opinion,
       decision_reasons, pr_rationale, evidence_summary, merged_branch_ids, pr_id, review_comments, created_at
FROM decision_records WHERE id=$1`
	listDecisionsQuery = `
SELECT id, issue_id, issue_title, team_path, decision, decision_maker, decision_opinion,
       decision_reasons, pr_rationale, evidence_summary, merged_branch_ids, pr_id, review_comments, created_at
FROM decision_records ORDER BY created_at, id`
)

// ListDecisions returns decision records in creation order.
func (p *Postgres) ListDecisions(ctx context.Context) ([]entities.DecisionRecord, error) {
	rows, err := p.db.Query(ctx, listDecisionsQuery)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	records := make([]entities.DecisionRecord, 0)
	for rows.Next() {
		rec, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return records, nil
}

// GetDecision returns one decision record.
func (p *Postgres) GetDecision(ctx context.Context, id string) (*entities.DecisionRecord, error) {
	rows, err := p.db.Query(ctx, selectDecisionQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get decision: %w", err)
		}
		return nil, entities.ErrDecisionNotFound
	}
	return scanDecision(rows)
}

func scanDecision(row pgx.Row) (*entities.DecisionRecord, error) {
	var rec entities.DecisionRecord
	if err := row.Scan(
		&rec.ID, &rec.IssueID, &rec.IssueTitle, &rec.TeamPath, &rec.Decision,
		&rec.DecisionMaker, &rec.DecisionOpinion, &rec.DecisionReasons, &rec.PRRationale,
		&rec.EvidenceSummary, &rec.MergedBranchIDs, &rec.PRID, &rec.ReviewComments, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan decision: %w", err)
	}
	return &rec, nil
}

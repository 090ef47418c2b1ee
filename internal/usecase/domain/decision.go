// Package domain contains application services orchestrating domain logic by decision record.
package domain

import (
	"context"
	"fmt"

	"decision-log-workflow/internal/entities"
)

// DecisionRecords returns all decision records in creation order.
func (u *Usecase) DecisionRecords(ctx context.Context) ([]entities.DecisionRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ListDecisions(ctx)
}

// DecisionRecord returns one decision record.
func (u *Usecase) DecisionRecord(ctx context.Context, id string) (*entities.DecisionRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: decision_id is required", entities.ErrInvalidArgument)
	}
	return u.repo.GetDecision(ctx, id)
}

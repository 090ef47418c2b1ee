package usecase

import (
	"context"
	"time"

	"decision-log-workflow/internal/repository"
	"decision-log-workflow/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	IssueUsecaseInterface
	BranchUsecaseInterface
	PullRequestUsecaseInterface
	DecisionUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, timeout time.Duration, teamPath string) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, teamPath)
}

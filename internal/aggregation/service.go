package aggregation

import (
	"context"
	"fmt"
	"log/slog"
)

type RepositoryAPI interface {
	LoadRows(ctx context.Context, filter Filter) ([]Row, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	rows, err := s.repo.LoadRows(ctx, filter)
	if err != nil {
		return Summary{}, fmt.Errorf("load aggregation rows: %w", err)
	}

	summary := Summarize(rows)
	s.logger.Debug("summary computed", "transaction_count", summary.TransactionCount)
	return summary, nil
}

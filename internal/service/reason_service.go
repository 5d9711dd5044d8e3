package service

import (
	"context"

	"removal-backend/internal/model"
	"removal-backend/internal/repository"
)

type ReasonService interface {
	ListReasons(ctx context.Context) ([]model.RemovalReason, error)
}

type reasonService struct {
	repo repository.ReasonRepository
}

func NewReasonService(repo repository.ReasonRepository) ReasonService {
	return &reasonService{repo: repo}
}

func (s *reasonService) ListReasons(ctx context.Context) ([]model.RemovalReason, error) {
	return s.repo.List(ctx)
}

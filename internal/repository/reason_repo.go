package repository

import (
	"context"

	"removal-backend/internal/model"

	"gorm.io/gorm"
)

// ReasonRepository reads the static removal-reason catalog.
type ReasonRepository interface {
	List(ctx context.Context) ([]model.RemovalReason, error)
	GetByID(ctx context.Context, id string) (*model.RemovalReason, error)
}

type reasonRepository struct {
	db *gorm.DB
}

func NewReasonRepository(db *gorm.DB) ReasonRepository {
	return &reasonRepository{db: db}
}

func (r *reasonRepository) List(ctx context.Context) ([]model.RemovalReason, error) {
	var reasons []model.RemovalReason
	if err := GetDB(ctx, r.db).Find(&reasons).Error; err != nil {
		return nil, err
	}
	return reasons, nil
}

func (r *reasonRepository) GetByID(ctx context.Context, id string) (*model.RemovalReason, error) {
	var reason model.RemovalReason
	if err := GetDB(ctx, r.db).First(&reason, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reason, nil
}

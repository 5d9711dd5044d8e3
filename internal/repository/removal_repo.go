package repository

import (
	"context"

	"removal-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RemovalRepository is the data-access boundary for removal requests.
// Approvals are append-only: there is deliberately no way to update or
// delete an approval row through this interface.
type RemovalRepository interface {
	Create(ctx context.Context, req *model.RemovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error)
	// FindByIDForUpdate locks the request row for the duration of the
	// surrounding transaction so concurrent decisions serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.RemovalRequest, error)
	ListByStatuses(ctx context.Context, statuses []string) ([]model.RemovalRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]model.RemovalRequest, int64, error)
	ListAll(ctx context.Context) ([]model.RemovalRequest, error)
	// UpdateDecision persists a decided request: the new status/updatedAt
	// plus the newly appended approval row.
	UpdateDecision(ctx context.Context, req *model.RemovalRequest, approval *model.Approval) error
	AddImage(ctx context.Context, req *model.RemovalRequest, img *model.RequestImage) error
	RemoveImage(ctx context.Context, req *model.RemovalRequest, imageID uuid.UUID) error
}

type removalRepository struct {
	db *gorm.DB
}

func NewRemovalRepository(db *gorm.DB) RemovalRepository {
	return &removalRepository{db: db}
}

func (r *removalRepository) Create(ctx context.Context, req *model.RemovalRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *removalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error) {
	var req model.RemovalRequest
	err := GetDB(ctx, r.db).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *removalRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RemovalRequest, error) {
	var req model.RemovalRequest
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	// Associations are loaded outside the locking clause: FOR UPDATE cannot
	// be combined with the preload joins on all drivers.
	if err := GetDB(ctx, r.db).
		Order("seq ASC").
		Find(&req.Approvals, "request_id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).
		Order("created_at ASC").
		Find(&req.Images, "request_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *removalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.RemovalRequest, error) {
	var reqs []model.RemovalRequest
	err := GetDB(ctx, r.db).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *removalRepository) ListByStatuses(ctx context.Context, statuses []string) ([]model.RemovalRequest, error) {
	if len(statuses) == 0 {
		return []model.RemovalRequest{}, nil
	}
	var reqs []model.RemovalRequest
	err := GetDB(ctx, r.db).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Images").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *removalRepository) List(ctx context.Context, status string, page, limit int) ([]model.RemovalRequest, int64, error) {
	var reqs []model.RemovalRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.RemovalRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Images")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	if err := fetch.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *removalRepository) ListAll(ctx context.Context) ([]model.RemovalRequest, error) {
	var reqs []model.RemovalRequest
	err := GetDB(ctx, r.db).
		Preload("Approvals", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Images").
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *removalRepository) UpdateDecision(ctx context.Context, req *model.RemovalRequest, approval *model.Approval) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(approval).Error; err != nil {
		return err
	}
	return db.Model(&model.RemovalRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"updated_at": req.UpdatedAt,
		}).Error
}

func (r *removalRepository) AddImage(ctx context.Context, req *model.RemovalRequest, img *model.RequestImage) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(img).Error; err != nil {
		return err
	}
	return db.Model(&model.RemovalRequest{}).
		Where("id = ?", req.ID).
		Update("updated_at", req.UpdatedAt).Error
}

func (r *removalRepository) RemoveImage(ctx context.Context, req *model.RemovalRequest, imageID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("id = ? AND request_id = ?", imageID, req.ID).
		Delete(&model.RequestImage{}).Error; err != nil {
		return err
	}
	return db.Model(&model.RemovalRequest{}).
		Where("id = ?", req.ID).
		Update("updated_at", req.UpdatedAt).Error
}

package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type DreamCoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, core *types.DreamCore) (*types.DreamCore, error)
	GetByID(ctx context.Context, tx *gorm.DB, coreID uuid.UUID) (*types.DreamCore, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.DreamCore, error)
	Update(ctx context.Context, tx *gorm.DB, core *types.DreamCore) (*types.DreamCore, error)
	Delete(ctx context.Context, tx *gorm.DB, coreID uuid.UUID) error
}

type dreamCoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDreamCoreRepo(db *gorm.DB, baseLog *logger.Logger) DreamCoreRepo {
	repoLog := baseLog.With("repo", "DreamCoreRepo")
	return &dreamCoreRepo{db: db, log: repoLog}
}

func (cr *dreamCoreRepo) Create(ctx context.Context, tx *gorm.DB, core *types.DreamCore) (*types.DreamCore, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(core).Error; err != nil {
		return nil, err
	}
	return core, nil
}

func (cr *dreamCoreRepo) GetByID(ctx context.Context, tx *gorm.DB, coreID uuid.UUID) (*types.DreamCore, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.DreamCore
	if err := transaction.WithContext(ctx).
		Where("id = ?", coreID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *dreamCoreRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.DreamCore, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.DreamCore
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *dreamCoreRepo) Update(ctx context.Context, tx *gorm.DB, core *types.DreamCore) (*types.DreamCore, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Save(core).Error; err != nil {
		return nil, err
	}
	return core, nil
}

func (cr *dreamCoreRepo) Delete(ctx context.Context, tx *gorm.DB, coreID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", coreID).
		Delete(&types.DreamCore{}).Error
}

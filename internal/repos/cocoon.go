package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type CocoonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon) (*types.Cocoon, error)
	GetByID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (*types.Cocoon, error)
	GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.Cocoon, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Cocoon, error)
	GetByStage(ctx context.Context, tx *gorm.DB, stage types.CocoonStage) ([]*types.Cocoon, error)
	Update(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon) (*types.Cocoon, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) error
	GetStaleInStages(ctx context.Context, tx *gorm.DB, stages []types.CocoonStage, cutoff time.Time) ([]*types.Cocoon, error)
	MarkMinted(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (bool, error)
}

type cocoonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCocoonRepo(db *gorm.DB, baseLog *logger.Logger) CocoonRepo {
	repoLog := baseLog.With("repo", "CocoonRepo")
	return &cocoonRepo{db: db, log: repoLog}
}

func (cr *cocoonRepo) Create(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon) (*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Create(cocoon).Error; err != nil {
		return nil, err
	}
	return cocoon, nil
}

func (cr *cocoonRepo) GetByID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Cocoon
	if err := transaction.WithContext(ctx).
		Where("id = ?", cocoonID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *cocoonRepo) GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Cocoon
	if err := transaction.WithContext(ctx).
		Where("dream_id = ?", dreamID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *cocoonRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Cocoon
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *cocoonRepo) GetByStage(ctx context.Context, tx *gorm.DB, stage types.CocoonStage) ([]*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Cocoon
	if err := transaction.WithContext(ctx).
		Where("stage = ?", stage).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *cocoonRepo) Update(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon) (*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	cocoon.LastUpdated = time.Now().UTC()
	if err := transaction.WithContext(ctx).Save(cocoon).Error; err != nil {
		return nil, err
	}
	return cocoon, nil
}

func (cr *cocoonRepo) UpdateFields(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	fields["last_updated"] = time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.Cocoon{}).
		Where("id = ?", cocoonID).
		Updates(fields).Error
}

func (cr *cocoonRepo) Delete(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", cocoonID).
		Delete(&types.Cocoon{}).Error
}

func (cr *cocoonRepo) GetStaleInStages(ctx context.Context, tx *gorm.DB, stages []types.CocoonStage, cutoff time.Time) ([]*types.Cocoon, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Cocoon
	if err := transaction.WithContext(ctx).
		Where("stage IN ? AND last_updated < ?", stages, cutoff).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkMinted flips minted from false to true and reports whether this call
// won the flip. Concurrent callers race on the WHERE clause, so at most one
// gets true back.
func (cr *cocoonRepo) MarkMinted(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Cocoon{}).
		Where("id = ? AND minted = ?", cocoonID, false).
		Updates(map[string]any{"minted": true, "last_updated": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type DreamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, dream *types.Dream) (*types.Dream, error)
	GetByID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.Dream, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Dream, error)
	GetByStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus) ([]*types.Dream, error)
	GetByWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.Dream, error)
	Update(ctx context.Context, tx *gorm.DB, dream *types.Dream) (*types.Dream, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) error
	GetStaleWithStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus, cutoff time.Time) ([]*types.Dream, error)
	GetScoredAtLeast(ctx context.Context, tx *gorm.DB, minScore int) ([]*types.Dream, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus) (int64, error)
}

type dreamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDreamRepo(db *gorm.DB, baseLog *logger.Logger) DreamRepo {
	repoLog := baseLog.With("repo", "DreamRepo")
	return &dreamRepo{db: db, log: repoLog}
}

func (dr *dreamRepo) Create(ctx context.Context, tx *gorm.DB, dream *types.Dream) (*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Create(dream).Error; err != nil {
		return nil, err
	}
	return dream, nil
}

func (dr *dreamRepo) GetByID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Dream
	if err := transaction.WithContext(ctx).
		Where("id = ?", dreamID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (dr *dreamRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dream
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dreamRepo) GetByStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus) ([]*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dream
	if err := transaction.WithContext(ctx).
		Where("dream_status = ?", status).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dreamRepo) GetByWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dream
	if err := transaction.WithContext(ctx).
		Where("wallet = ?", wallet).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dreamRepo) Update(ctx context.Context, tx *gorm.DB, dream *types.Dream) (*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	dream.LastUpdated = time.Now().UTC()
	if err := transaction.WithContext(ctx).Save(dream).Error; err != nil {
		return nil, err
	}
	return dream, nil
}

func (dr *dreamRepo) UpdateFields(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	fields["last_updated"] = time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.Dream{}).
		Where("id = ?", dreamID).
		Updates(fields).Error
}

func (dr *dreamRepo) Delete(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	return transaction.WithContext(ctx).
		Where("id = ?", dreamID).
		Delete(&types.Dream{}).Error
}

func (dr *dreamRepo) GetStaleWithStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus, cutoff time.Time) ([]*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dream
	if err := transaction.WithContext(ctx).
		Where("dream_status = ? AND last_updated < ?", status, cutoff).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dreamRepo) GetScoredAtLeast(ctx context.Context, tx *gorm.DB, minScore int) ([]*types.Dream, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Dream
	if err := transaction.WithContext(ctx).
		Where("dream_score >= ?", minScore).
		Order("dream_score DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dreamRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status types.DreamStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Dream{}).
		Where("dream_status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

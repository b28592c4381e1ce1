package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type DreamTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *types.DreamToken) (*types.DreamToken, error)
	GetByHolder(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.DreamToken, error)
	GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) ([]*types.DreamToken, error)
	GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.DreamToken, error)
	CountByPurpose(ctx context.Context, tx *gorm.DB, purpose types.TokenPurpose) (int64, error)
}

type dreamTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDreamTokenRepo(db *gorm.DB, baseLog *logger.Logger) DreamTokenRepo {
	repoLog := baseLog.With("repo", "DreamTokenRepo")
	return &dreamTokenRepo{db: db, log: repoLog}
}

func (tr *dreamTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.DreamToken) (*types.DreamToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (tr *dreamTokenRepo) GetByHolder(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.DreamToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.DreamToken
	if err := transaction.WithContext(ctx).
		Where("holder_wallet = ?", wallet).
		Order("minted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *dreamTokenRepo) GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) ([]*types.DreamToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.DreamToken
	if err := transaction.WithContext(ctx).
		Where("dream_id = ?", dreamID).
		Order("minted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *dreamTokenRepo) GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.DreamToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.DreamToken
	if err := transaction.WithContext(ctx).
		Where("cocoon_id = ?", cocoonID).
		Order("minted_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *dreamTokenRepo) CountByPurpose(ctx context.Context, tx *gorm.DB, purpose types.TokenPurpose) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DreamToken{}).
		Where("purpose = ?", purpose).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

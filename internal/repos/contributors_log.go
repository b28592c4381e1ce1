package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type ContributorsLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ContributorsLog) (*types.ContributorsLog, error)
	GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.ContributorsLog, error)
	GetByWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.ContributorsLog, error)
}

type contributorsLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContributorsLogRepo(db *gorm.DB, baseLog *logger.Logger) ContributorsLogRepo {
	repoLog := baseLog.With("repo", "ContributorsLogRepo")
	return &contributorsLogRepo{db: db, log: repoLog}
}

func (clr *contributorsLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ContributorsLog) (*types.ContributorsLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (clr *contributorsLogRepo) GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.ContributorsLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	var results []*types.ContributorsLog
	if err := transaction.WithContext(ctx).
		Where("cocoon_id = ?", cocoonID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (clr *contributorsLogRepo) GetByWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.ContributorsLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	var results []*types.ContributorsLog
	if err := transaction.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

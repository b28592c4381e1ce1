package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type CocoonLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.CocoonLog) (*types.CocoonLog, error)
	GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.CocoonLog, error)
}

type cocoonLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCocoonLogRepo(db *gorm.DB, baseLog *logger.Logger) CocoonLogRepo {
	repoLog := baseLog.With("repo", "CocoonLogRepo")
	return &cocoonLogRepo{db: db, log: repoLog}
}

func (clr *cocoonLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.CocoonLog) (*types.CocoonLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (clr *cocoonLogRepo) GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) ([]*types.CocoonLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = clr.db
	}

	var results []*types.CocoonLog
	if err := transaction.WithContext(ctx).
		Where("cocoon_id = ?", cocoonID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

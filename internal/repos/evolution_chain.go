package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type EvolutionChainRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chain *types.EvolutionChain) (*types.EvolutionChain, error)
	GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.EvolutionChain, error)
	GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (*types.EvolutionChain, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.EvolutionChain, error)
	Update(ctx context.Context, tx *gorm.DB, chain *types.EvolutionChain) (*types.EvolutionChain, error)
}

type evolutionChainRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvolutionChainRepo(db *gorm.DB, baseLog *logger.Logger) EvolutionChainRepo {
	repoLog := baseLog.With("repo", "EvolutionChainRepo")
	return &evolutionChainRepo{db: db, log: repoLog}
}

func (er *evolutionChainRepo) Create(ctx context.Context, tx *gorm.DB, chain *types.EvolutionChain) (*types.EvolutionChain, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if err := transaction.WithContext(ctx).Create(chain).Error; err != nil {
		return nil, err
	}
	return chain, nil
}

func (er *evolutionChainRepo) GetByDreamID(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID) (*types.EvolutionChain, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.EvolutionChain
	if err := transaction.WithContext(ctx).
		Where("dream_id = ?", dreamID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *evolutionChainRepo) GetByCocoonID(ctx context.Context, tx *gorm.DB, cocoonID uuid.UUID) (*types.EvolutionChain, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var result types.EvolutionChain
	if err := transaction.WithContext(ctx).
		Where("cocoon_id = ?", cocoonID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (er *evolutionChainRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.EvolutionChain, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.EvolutionChain
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *evolutionChainRepo) Update(ctx context.Context, tx *gorm.DB, chain *types.EvolutionChain) (*types.EvolutionChain, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	chain.LastUpdated = time.Now().UTC()
	if err := transaction.WithContext(ctx).Save(chain).Error; err != nil {
		return nil, err
	}
	return chain, nil
}

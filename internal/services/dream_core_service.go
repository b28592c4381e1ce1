package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type CreateDreamCoreInput struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	OwnerID string `json:"owner_id" binding:"required"`
}

type UpdateDreamCoreInput struct {
	Energy    *int  `json:"energy"`
	Resonance *int  `json:"resonance"`
	IsActive  *bool `json:"is_active"`
}

type DreamCoreService interface {
	Create(ctx context.Context, input CreateDreamCoreInput) (*types.DreamCore, error)
	Get(ctx context.Context, coreID uuid.UUID) (*types.DreamCore, error)
	List(ctx context.Context) ([]*types.DreamCore, error)
	Update(ctx context.Context, coreID uuid.UUID, input UpdateDreamCoreInput) (*types.DreamCore, error)
	Delete(ctx context.Context, coreID uuid.UUID) error
}

type dreamCoreService struct {
	db       *gorm.DB
	log      *logger.Logger
	coreRepo repos.DreamCoreRepo
}

func NewDreamCoreService(db *gorm.DB, log *logger.Logger, coreRepo repos.DreamCoreRepo) DreamCoreService {
	serviceLog := log.With("service", "DreamCoreService")
	return &dreamCoreService{db: db, log: serviceLog, coreRepo: coreRepo}
}

func (cs *dreamCoreService) Create(ctx context.Context, input CreateDreamCoreInput) (*types.DreamCore, error) {
	core := &types.DreamCore{
		Name:      input.Name,
		Type:      input.Type,
		OwnerID:   input.OwnerID,
		Energy:    100,
		Resonance: 50,
		IsActive:  true,
	}
	if _, err := cs.coreRepo.Create(ctx, nil, core); err != nil {
		return nil, err
	}
	cs.log.Info("Dream core created", "coreID", core.ID, "name", core.Name)
	return core, nil
}

func (cs *dreamCoreService) Get(ctx context.Context, coreID uuid.UUID) (*types.DreamCore, error) {
	core, err := cs.coreRepo.GetByID(ctx, nil, coreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("dream_core_not_found", err)
		}
		return nil, err
	}
	return core, nil
}

func (cs *dreamCoreService) List(ctx context.Context) ([]*types.DreamCore, error) {
	return cs.coreRepo.GetAll(ctx, nil)
}

func (cs *dreamCoreService) Update(ctx context.Context, coreID uuid.UUID, input UpdateDreamCoreInput) (*types.DreamCore, error) {
	var core *types.DreamCore
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		core, err = cs.coreRepo.GetByID(ctx, tx, coreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_core_not_found", err)
			}
			return err
		}

		if input.Energy != nil {
			core.Energy = clampCoreStat(*input.Energy)
		}
		if input.Resonance != nil {
			core.Resonance = clampCoreStat(*input.Resonance)
		}
		if input.IsActive != nil {
			core.IsActive = *input.IsActive
		}

		_, err = cs.coreRepo.Update(ctx, tx, core)
		return err
	})
	if err != nil {
		return nil, err
	}
	return core, nil
}

func (cs *dreamCoreService) Delete(ctx context.Context, coreID uuid.UUID) error {
	return cs.coreRepo.Delete(ctx, nil, coreID)
}

// Energy and resonance are percentages and always stored clamped.
func clampCoreStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

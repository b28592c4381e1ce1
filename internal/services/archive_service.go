package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type ArchiveResult struct {
	DreamsRejected  int `json:"dreams_rejected"`
	CocoonsArchived int `json:"cocoons_archived"`
}

type ArchiveService interface {
	// ArchiveInactive rejects pending dreams and archives early-stage
	// cocoons whose last_updated is older than the cutoff.
	ArchiveInactive(ctx context.Context, inactivityDays int) (*ArchiveResult, error)
}

type archiveService struct {
	db            *gorm.DB
	log           *logger.Logger
	dreamRepo     repos.DreamRepo
	cocoonRepo    repos.CocoonRepo
	cocoonLogRepo repos.CocoonLogRepo
	notifier      NotifierService
}

func NewArchiveService(
	db *gorm.DB,
	log *logger.Logger,
	dreamRepo repos.DreamRepo,
	cocoonRepo repos.CocoonRepo,
	cocoonLogRepo repos.CocoonLogRepo,
	notifier NotifierService,
) ArchiveService {
	serviceLog := log.With("service", "ArchiveService")
	return &archiveService{
		db:            db,
		log:           serviceLog,
		dreamRepo:     dreamRepo,
		cocoonRepo:    cocoonRepo,
		cocoonLogRepo: cocoonLogRepo,
		notifier:      notifier,
	}
}

func (as *archiveService) ArchiveInactive(ctx context.Context, inactivityDays int) (*ArchiveResult, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -inactivityDays)
	as.log.Info("Archive sweep started", "inactivityDays", inactivityDays, "cutoff", cutoff)

	result := &ArchiveResult{}
	var archivedCocoons []*types.Cocoon

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staleDreams, err := as.dreamRepo.GetStaleWithStatus(ctx, tx, types.DreamPending, cutoff)
		if err != nil {
			return err
		}
		for _, dream := range staleDreams {
			dream.DreamStatus = types.DreamRejected
			if _, err := as.dreamRepo.Update(ctx, tx, dream); err != nil {
				return err
			}
			result.DreamsRejected++
		}

		earlyStages := []types.CocoonStage{types.StageSeedling, types.StageIncubating}
		staleCocoons, err := as.cocoonRepo.GetStaleInStages(ctx, tx, earlyStages, cutoff)
		if err != nil {
			return err
		}
		for _, cocoon := range staleCocoons {
			previous := cocoon.Stage
			cocoon.Stage = types.StageArchived
			if _, err := as.cocoonRepo.Update(ctx, tx, cocoon); err != nil {
				return err
			}

			entry := &types.CocoonLog{
				CocoonID:      cocoon.ID,
				PreviousStage: previous,
				NewStage:      types.StageArchived,
				AdminWallet:   "system",
				Notes:         "archived by inactivity sweep",
			}
			if _, err := as.cocoonLogRepo.Create(ctx, tx, entry); err != nil {
				return err
			}
			result.CocoonsArchived++
			archivedCocoons = append(archivedCocoons, cocoon)
		}
		return nil
	})
	if err != nil {
		as.log.Error("Archive sweep failed", "error", err)
		return nil, err
	}

	for _, cocoon := range archivedCocoons {
		as.notifier.CocoonArchived(ctx, cocoon)
	}

	as.log.Info("Archive sweep finished",
		"dreamsRejected", result.DreamsRejected,
		"cocoonsArchived", result.CocoonsArchived)
	return result, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/graph"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/scoring"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

// EvolveScoreThreshold is the minimum dream score required before a dream may
// evolve into a cocoon.
const EvolveScoreThreshold = 60

type CreateDreamInput struct {
	Wallet      string   `json:"wallet" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Urgency     int      `json:"urgency"`
	Origin      string   `json:"origin"`
}

type EditDreamInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

type EngagementInput struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

type DreamService interface {
	Create(ctx context.Context, input CreateDreamInput) (*types.Dream, error)
	Get(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error)
	List(ctx context.Context, status types.DreamStatus) ([]*types.Dream, error)
	ListByWallet(ctx context.Context, wallet string) ([]*types.Dream, error)
	UpdateStatus(ctx context.Context, dreamID uuid.UUID, status types.DreamStatus, reviewerID string) (*types.Dream, error)
	Edit(ctx context.Context, dreamID uuid.UUID, input EditDreamInput) (*types.Dream, error)
	RecordEngagement(ctx context.Context, dreamID uuid.UUID, input EngagementInput) (*types.Dream, error)
	RefreshAIScore(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error)
	SetScore(ctx context.Context, dreamID uuid.UUID, score int, breakdown *types.ScoreBreakdown) (*types.Dream, error)
	RecalculateScore(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error)
	Delete(ctx context.Context, dreamID uuid.UUID) error
}

type dreamService struct {
	db        *gorm.DB
	log       *logger.Logger
	dreamRepo repos.DreamRepo
	notifier  NotifierService
	graph     *graph.Client
}

func NewDreamService(db *gorm.DB, log *logger.Logger, dreamRepo repos.DreamRepo, notifier NotifierService, graphClient *graph.Client) DreamService {
	serviceLog := log.With("service", "DreamService")
	return &dreamService{
		db:        db,
		log:       serviceLog,
		dreamRepo: dreamRepo,
		notifier:  notifier,
		graph:     graphClient,
	}
}

func (ds *dreamService) mirrorGraph(ctx context.Context, dream *types.Dream) {
	if err := graph.SyncDream(ctx, ds.graph, ds.log, dream); err != nil {
		ds.log.Warn("neo4j dream sync failed (continuing)", "error", err, "dreamID", dream.ID)
	}
}

func (ds *dreamService) Create(ctx context.Context, input CreateDreamInput) (*types.Dream, error) {
	if input.Wallet == "" || input.Title == "" {
		return nil, apierr.BadRequest("dream_invalid", errors.New("wallet and title are required"))
	}

	dream := &types.Dream{
		Wallet:      input.Wallet,
		Title:       input.Title,
		Description: input.Description,
		Tags:        datatypes.JSONSlice[string](input.Tags),
		Urgency:     input.Urgency,
		Origin:      input.Origin,
	}

	aiScore, aiTags := scoring.CalculateAIScore(dream)
	dream.AIScore = &aiScore
	dream.AITags = datatypes.JSONSlice[string](aiTags)

	created, err := ds.dreamRepo.Create(ctx, nil, dream)
	if err != nil {
		ds.log.Error("Failed to create dream", "wallet", input.Wallet, "error", err)
		return nil, fmt.Errorf("create dream: %w", err)
	}

	ds.log.Info("Dream created", "dreamID", created.ID, "aiScore", aiScore)
	ds.mirrorGraph(ctx, created)
	return created, nil
}

func (ds *dreamService) Get(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error) {
	dream, err := ds.dreamRepo.GetByID(ctx, nil, dreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("dream_not_found", err)
		}
		return nil, err
	}
	return dream, nil
}

func (ds *dreamService) List(ctx context.Context, status types.DreamStatus) ([]*types.Dream, error) {
	if status == "" {
		return ds.dreamRepo.GetAll(ctx, nil)
	}
	if !types.IsValidDreamStatus(status) {
		return nil, apierr.BadRequest("invalid_status", fmt.Errorf("unknown dream status %q", status))
	}
	return ds.dreamRepo.GetByStatus(ctx, nil, status)
}

func (ds *dreamService) ListByWallet(ctx context.Context, wallet string) ([]*types.Dream, error) {
	return ds.dreamRepo.GetByWallet(ctx, nil, wallet)
}

func (ds *dreamService) UpdateStatus(ctx context.Context, dreamID uuid.UUID, status types.DreamStatus, reviewerID string) (*types.Dream, error) {
	if !types.IsValidDreamStatus(status) {
		return nil, apierr.BadRequest("invalid_status", fmt.Errorf("unknown dream status %q", status))
	}

	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		now := time.Now().UTC()
		dream.DreamStatus = status
		dream.ReviewedAt = &now
		dream.ReviewerID = reviewerID

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}

	if status == types.DreamApproved {
		ds.notifier.DreamApproved(ctx, updated)
	}
	ds.log.Info("Dream status updated", "dreamID", dreamID, "status", status)
	ds.mirrorGraph(ctx, updated)
	return updated, nil
}

func (ds *dreamService) Edit(ctx context.Context, dreamID uuid.UUID, input EditDreamInput) (*types.Dream, error) {
	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		if input.Title != nil {
			dream.Title = *input.Title
		}
		if input.Description != nil {
			dream.Description = *input.Description
		}
		if input.Tags != nil {
			dream.Tags = datatypes.JSONSlice[string](input.Tags)
		}
		dream.EditCount++

		total, breakdown := scoring.CalculateDreamScore(dream, time.Now().UTC())
		dream.DreamScore = total
		jsonBreakdown := datatypes.NewJSONType(breakdown)
		dream.ScoreBreakdown = &jsonBreakdown

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (ds *dreamService) RecordEngagement(ctx context.Context, dreamID uuid.UUID, input EngagementInput) (*types.Dream, error) {
	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		dream.Views += input.Views
		dream.Likes += input.Likes
		dream.Comments += input.Comments

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RefreshAIScore reruns the keyword evaluator against the current text.
func (ds *dreamService) RefreshAIScore(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error) {
	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		aiScore, aiTags := scoring.CalculateAIScore(dream)
		dream.AIScore = &aiScore
		dream.AITags = datatypes.JSONSlice[string](aiTags)

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetScore writes an explicit score, used by review tooling where the score
// comes from outside the heuristic.
func (ds *dreamService) SetScore(ctx context.Context, dreamID uuid.UUID, score int, breakdown *types.ScoreBreakdown) (*types.Dream, error) {
	if score < 0 || score > 100 {
		return nil, apierr.BadRequest("invalid_score", fmt.Errorf("score %d out of range [0,100]", score))
	}

	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		dream.DreamScore = score
		if breakdown != nil {
			jsonBreakdown := datatypes.NewJSONType(*breakdown)
			dream.ScoreBreakdown = &jsonBreakdown
		}

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}

	ds.notifier.DreamScoreUpdated(ctx, updated)
	return updated, nil
}

func (ds *dreamService) RecalculateScore(ctx context.Context, dreamID uuid.UUID) (*types.Dream, error) {
	var updated *types.Dream
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := ds.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		total, breakdown := scoring.CalculateDreamScore(dream, time.Now().UTC())
		dream.DreamScore = total
		jsonBreakdown := datatypes.NewJSONType(breakdown)
		dream.ScoreBreakdown = &jsonBreakdown

		updated, err = ds.dreamRepo.Update(ctx, tx, dream)
		return err
	})
	if err != nil {
		return nil, err
	}

	ds.notifier.DreamScoreUpdated(ctx, updated)
	return updated, nil
}

func (ds *dreamService) Delete(ctx context.Context, dreamID uuid.UUID) error {
	return ds.dreamRepo.Delete(ctx, nil, dreamID)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

const (
	// HarvestScoreThreshold is the minimum dream score for a dream to
	// accrue yield at all.
	HarvestScoreThreshold = 50
	// MinClaimAmount rejects dust claims.
	MinClaimAmount = 0.001
	// evolvedYieldMultiplier boosts dreams that made it to cocoon stage.
	evolvedYieldMultiplier = 1.5
	baseYieldFloor         = 0.1
)

// DreamYield is the computed yield state for one dream, always derived from
// the stored row rather than any cached copy.
type DreamYield struct {
	DreamID     uuid.UUID `json:"dream_id"`
	Title       string    `json:"title"`
	DreamScore  int       `json:"dream_score"`
	Evolved     bool      `json:"evolved"`
	DailyYield  float64   `json:"daily_yield"`
	Pending     float64   `json:"pending"`
	TotalEarned float64   `json:"total_earned"`
}

type HarvestSummary struct {
	Wallet       string       `json:"wallet"`
	Dreams       []DreamYield `json:"dreams"`
	TotalPending float64      `json:"total_pending"`
	TotalEarned  float64      `json:"total_earned"`
}

type ClaimResult struct {
	DreamID uuid.UUID `json:"dream_id"`
	Amount  float64   `json:"amount"`
}

type HarvestService interface {
	Yield(ctx context.Context, wallet string) (*HarvestSummary, error)
	Claim(ctx context.Context, dreamID uuid.UUID) (*ClaimResult, error)
	ClaimAll(ctx context.Context, wallet string) ([]ClaimResult, error)
}

type harvestService struct {
	db        *gorm.DB
	log       *logger.Logger
	dreamRepo repos.DreamRepo
}

func NewHarvestService(db *gorm.DB, log *logger.Logger, dreamRepo repos.DreamRepo) HarvestService {
	serviceLog := log.With("service", "HarvestService")
	return &harvestService{
		db:        db,
		log:       serviceLog,
		dreamRepo: dreamRepo,
	}
}

// dailyYield is max(0.1, score/100), boosted 1.5x once the dream evolved.
func dailyYield(dream *types.Dream) float64 {
	base := float64(dream.DreamScore) / 100
	if base < baseYieldFloor {
		base = baseYieldFloor
	}
	if dream.Evolved {
		base *= evolvedYieldMultiplier
	}
	return base
}

func pendingYield(dream *types.Dream, now time.Time) float64 {
	if dream.DreamScore < HarvestScoreThreshold {
		return 0
	}
	since := dream.CreatedAt
	if dream.LastClaimedAt != nil {
		since = *dream.LastClaimedAt
	}
	days := now.Sub(since).Hours() / 24
	if days <= 0 {
		return 0
	}
	return dailyYield(dream) * days
}

func (hs *harvestService) Yield(ctx context.Context, wallet string) (*HarvestSummary, error) {
	dreams, err := hs.dreamRepo.GetByWallet(ctx, nil, wallet)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summary := &HarvestSummary{Wallet: wallet, Dreams: []DreamYield{}}
	for _, dream := range dreams {
		if dream.DreamScore < HarvestScoreThreshold {
			continue
		}
		yield := DreamYield{
			DreamID:     dream.ID,
			Title:       dream.Title,
			DreamScore:  dream.DreamScore,
			Evolved:     dream.Evolved,
			DailyYield:  dailyYield(dream),
			Pending:     pendingYield(dream, now),
			TotalEarned: dream.TotalEarned,
		}
		summary.Dreams = append(summary.Dreams, yield)
		summary.TotalPending += yield.Pending
		summary.TotalEarned += yield.TotalEarned
	}
	return summary, nil
}

func (hs *harvestService) Claim(ctx context.Context, dreamID uuid.UUID) (*ClaimResult, error) {
	var result *ClaimResult
	err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := hs.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}

		now := time.Now().UTC()
		amount := pendingYield(dream, now)
		if amount < MinClaimAmount {
			return apierr.BadRequest("claim_too_small",
				fmt.Errorf("pending yield %.6f is below the minimum claim of %.3f", amount, MinClaimAmount))
		}

		dream.LastClaimedAt = &now
		dream.TotalEarned += amount
		if _, err := hs.dreamRepo.Update(ctx, tx, dream); err != nil {
			return err
		}

		result = &ClaimResult{DreamID: dreamID, Amount: amount}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hs.log.Info("Yield claimed", "dreamID", dreamID, "amount", result.Amount)
	return result, nil
}

func (hs *harvestService) ClaimAll(ctx context.Context, wallet string) ([]ClaimResult, error) {
	var results []ClaimResult
	err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dreams, err := hs.dreamRepo.GetByWallet(ctx, tx, wallet)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, dream := range dreams {
			amount := pendingYield(dream, now)
			if amount < MinClaimAmount {
				continue
			}
			claimTime := now
			dream.LastClaimedAt = &claimTime
			dream.TotalEarned += amount
			if _, err := hs.dreamRepo.Update(ctx, tx, dream); err != nil {
				return err
			}
			results = append(results, ClaimResult{DreamID: dream.ID, Amount: amount})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hs.log.Info("Claimed all yield", "wallet", wallet, "claims", len(results))
	return results, nil
}

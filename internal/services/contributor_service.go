package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type ContributorService interface {
	// Add reports true when the contributor was appended and false when
	// the request was rejected (unknown cocoon, invalid role, or the
	// wallet already holds any role on the cocoon).
	Add(ctx context.Context, cocoonID uuid.UUID, wallet string, role types.ContributorRole, performedBy string) (bool, error)
	Remove(ctx context.Context, cocoonID uuid.UUID, wallet string, performedBy string) (bool, error)
	List(ctx context.Context, cocoonID uuid.UUID) ([]types.Contributor, error)
	History(ctx context.Context, cocoonID uuid.UUID) ([]*types.ContributorsLog, error)
	Top(ctx context.Context, limit int) ([]ContributorRanking, error)
}

type ContributorRanking struct {
	Wallet  string `json:"wallet"`
	Cocoons int    `json:"cocoons"`
}

type contributorService struct {
	db         *gorm.DB
	log        *logger.Logger
	cocoonRepo repos.CocoonRepo
	logRepo    repos.ContributorsLogRepo
	notifier   NotifierService
}

func NewContributorService(db *gorm.DB, log *logger.Logger, cocoonRepo repos.CocoonRepo, logRepo repos.ContributorsLogRepo, notifier NotifierService) ContributorService {
	serviceLog := log.With("service", "ContributorService")
	return &contributorService{
		db:         db,
		log:        serviceLog,
		cocoonRepo: cocoonRepo,
		logRepo:    logRepo,
		notifier:   notifier,
	}
}

func (cs *contributorService) Add(ctx context.Context, cocoonID uuid.UUID, wallet string, role types.ContributorRole, performedBy string) (bool, error) {
	if !types.IsValidContributorRole(role) {
		cs.log.Warn("Rejected contributor: invalid role", "cocoonID", cocoonID, "wallet", wallet, "role", role)
		return false, nil
	}

	var (
		cocoon      *types.Cocoon
		contributor types.Contributor
		rejected    bool
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cocoon, err = cs.cocoonRepo.GetByID(ctx, tx, cocoonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				cs.log.Warn("Rejected contributor: cocoon not found", "cocoonID", cocoonID, "wallet", wallet)
				rejected = true
				return nil
			}
			return err
		}

		if existing, ok := cocoon.HasContributor(wallet); ok {
			cs.log.Warn("Rejected contributor: wallet already contributing",
				"cocoonID", cocoonID, "wallet", wallet, "existingRole", existing.Role)
			rejected = true
			return nil
		}

		contributor = types.Contributor{
			Wallet:   wallet,
			Role:     role,
			JoinedAt: time.Now().UTC().Format(time.RFC3339),
		}
		cocoon.Contributors = append(cocoon.Contributors, contributor)
		if _, err := cs.cocoonRepo.Update(ctx, tx, cocoon); err != nil {
			return err
		}

		entry := &types.ContributorsLog{
			CocoonID:      cocoonID,
			WalletAddress: wallet,
			Role:          role,
			ActionType:    types.ContributorAdded,
			PerformedBy:   performedBy,
		}
		_, err = cs.logRepo.Create(ctx, tx, entry)
		return err
	})
	if err != nil {
		return false, err
	}
	if rejected {
		return false, nil
	}

	cs.log.Info("Contributor added", "cocoonID", cocoonID, "wallet", wallet, "role", role)
	cs.notifier.ContributorAdded(ctx, cocoon, contributor)
	return true, nil
}

func (cs *contributorService) Remove(ctx context.Context, cocoonID uuid.UUID, wallet string, performedBy string) (bool, error) {
	var (
		cocoon  *types.Cocoon
		removed types.Contributor
		found   bool
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cocoon, err = cs.cocoonRepo.GetByID(ctx, tx, cocoonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("cocoon_not_found", err)
			}
			return err
		}

		kept := cocoon.Contributors[:0]
		for _, c := range cocoon.Contributors {
			if c.Wallet == wallet {
				removed = c
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			return nil
		}

		cocoon.Contributors = kept
		if _, err := cs.cocoonRepo.Update(ctx, tx, cocoon); err != nil {
			return err
		}

		entry := &types.ContributorsLog{
			CocoonID:      cocoonID,
			WalletAddress: wallet,
			Role:          removed.Role,
			ActionType:    types.ContributorRemoved,
			PerformedBy:   performedBy,
		}
		_, err = cs.logRepo.Create(ctx, tx, entry)
		return err
	})
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	cs.log.Info("Contributor removed", "cocoonID", cocoonID, "wallet", wallet)
	cs.notifier.ContributorRemoved(ctx, cocoon, wallet)
	return true, nil
}

func (cs *contributorService) List(ctx context.Context, cocoonID uuid.UUID) ([]types.Contributor, error) {
	cocoon, err := cs.cocoonRepo.GetByID(ctx, nil, cocoonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("cocoon_not_found", err)
		}
		return nil, err
	}
	return cocoon.Contributors, nil
}

func (cs *contributorService) History(ctx context.Context, cocoonID uuid.UUID) ([]*types.ContributorsLog, error) {
	return cs.logRepo.GetByCocoonID(ctx, nil, cocoonID)
}

// Top ranks wallets by the number of distinct cocoons they currently
// contribute to.
func (cs *contributorService) Top(ctx context.Context, limit int) ([]ContributorRanking, error) {
	if limit <= 0 {
		return nil, apierr.BadRequest("invalid_limit", fmt.Errorf("limit %d must be positive", limit))
	}

	cocoons, err := cs.cocoonRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, cocoon := range cocoons {
		for _, contributor := range cocoon.Contributors {
			counts[contributor.Wallet]++
		}
	}

	rankings := make([]ContributorRanking, 0, len(counts))
	for wallet, n := range counts {
		rankings = append(rankings, ContributorRanking{Wallet: wallet, Cocoons: n})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Cocoons != rankings[j].Cocoons {
			return rankings[i].Cocoons > rankings[j].Cocoons
		}
		return rankings[i].Wallet < rankings[j].Wallet
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type WalletService interface {
	GetOrCreate(ctx context.Context, userID string) (*types.Wallet, error)
	// Recalculate refreshes the wallet's aggregate scores from the user's
	// dreams and tokens.
	Recalculate(ctx context.Context, userID, walletAddress string) (*types.Wallet, error)
}

type walletService struct {
	db         *gorm.DB
	log        *logger.Logger
	walletRepo repos.WalletRepo
	dreamRepo  repos.DreamRepo
	tokenRepo  repos.DreamTokenRepo
}

func NewWalletService(db *gorm.DB, log *logger.Logger, walletRepo repos.WalletRepo, dreamRepo repos.DreamRepo, tokenRepo repos.DreamTokenRepo) WalletService {
	serviceLog := log.With("service", "WalletService")
	return &walletService{
		db:         db,
		log:        serviceLog,
		walletRepo: walletRepo,
		dreamRepo:  dreamRepo,
		tokenRepo:  tokenRepo,
	}
}

func (ws *walletService) GetOrCreate(ctx context.Context, userID string) (*types.Wallet, error) {
	wallet, err := ws.walletRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &types.Wallet{UserID: userID}
	if _, err := ws.walletRepo.Create(ctx, nil, wallet); err != nil {
		return nil, err
	}
	ws.log.Info("Wallet created", "userID", userID)
	return wallet, nil
}

func (ws *walletService) Recalculate(ctx context.Context, userID, walletAddress string) (*types.Wallet, error) {
	var wallet *types.Wallet
	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = ws.walletRepo.GetByUserID(ctx, tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = &types.Wallet{UserID: userID}
			if _, err := ws.walletRepo.Create(ctx, tx, wallet); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		dreams, err := ws.dreamRepo.GetByWallet(ctx, tx, walletAddress)
		if err != nil {
			return err
		}
		tokens, err := ws.tokenRepo.GetByHolder(ctx, tx, walletAddress)
		if err != nil {
			return err
		}

		bestScore := 0
		totalEarned := 0.0
		for _, dream := range dreams {
			if dream.DreamScore > bestScore {
				bestScore = dream.DreamScore
			}
			totalEarned += dream.TotalEarned
		}

		cocoonTokens := 0
		coreFragments := 0
		for _, token := range tokens {
			switch token.Purpose {
			case types.PurposeBadge, types.PurposeVote:
				cocoonTokens++
			case types.PurposeMint:
				coreFragments++
			}
		}

		wallet.DreamScore = bestScore
		wallet.CocoonTokens = cocoonTokens
		wallet.CoreFragments = coreFragments
		wallet.TotalValue = totalEarned
		_, err = ws.walletRepo.Update(ctx, tx, wallet)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

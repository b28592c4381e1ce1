package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type TokenService interface {
	// Mint writes a token row inside the caller's transaction. Milestone
	// token rules in the stage pipeline depend on this being atomic with
	// the stage write.
	Mint(ctx context.Context, tx *gorm.DB, token *types.DreamToken) (*types.DreamToken, error)
	ListByWallet(ctx context.Context, wallet string) ([]*types.DreamToken, error)
	ListByDream(ctx context.Context, dreamID uuid.UUID) ([]*types.DreamToken, error)
	ListByCocoon(ctx context.Context, cocoonID uuid.UUID) ([]*types.DreamToken, error)
}

type tokenService struct {
	db        *gorm.DB
	log       *logger.Logger
	tokenRepo repos.DreamTokenRepo
	notifier  NotifierService
}

func NewTokenService(db *gorm.DB, log *logger.Logger, tokenRepo repos.DreamTokenRepo, notifier NotifierService) TokenService {
	serviceLog := log.With("service", "TokenService")
	return &tokenService{
		db:        db,
		log:       serviceLog,
		tokenRepo: tokenRepo,
		notifier:  notifier,
	}
}

func (ts *tokenService) Mint(ctx context.Context, tx *gorm.DB, token *types.DreamToken) (*types.DreamToken, error) {
	if !types.IsValidTokenPurpose(token.Purpose) {
		return nil, apierr.BadRequest("invalid_token_purpose", nil)
	}

	minted, err := ts.tokenRepo.Create(ctx, tx, token)
	if err != nil {
		return nil, err
	}

	ts.log.Info("Token minted", "purpose", minted.Purpose, "holder", minted.HolderWallet, "milestone", minted.Milestone)
	ts.notifier.TokenMinted(ctx, minted)
	return minted, nil
}

func (ts *tokenService) ListByWallet(ctx context.Context, wallet string) ([]*types.DreamToken, error) {
	return ts.tokenRepo.GetByHolder(ctx, nil, wallet)
}

func (ts *tokenService) ListByDream(ctx context.Context, dreamID uuid.UUID) ([]*types.DreamToken, error) {
	return ts.tokenRepo.GetByDreamID(ctx, nil, dreamID)
}

func (ts *tokenService) ListByCocoon(ctx context.Context, cocoonID uuid.UUID) ([]*types.DreamToken, error) {
	return ts.tokenRepo.GetByCocoonID(ctx, nil, cocoonID)
}

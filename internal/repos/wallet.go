package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type WalletRepo interface {
	Create(ctx context.Context, tx *gorm.DB, wallet *types.Wallet) (*types.Wallet, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.Wallet, error)
	Update(ctx context.Context, tx *gorm.DB, wallet *types.Wallet) (*types.Wallet, error)
	AddEarnings(ctx context.Context, tx *gorm.DB, userID string, amount float64) error
}

type walletRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWalletRepo(db *gorm.DB, baseLog *logger.Logger) WalletRepo {
	repoLog := baseLog.With("repo", "WalletRepo")
	return &walletRepo{db: db, log: repoLog}
}

func (wr *walletRepo) Create(ctx context.Context, tx *gorm.DB, wallet *types.Wallet) (*types.Wallet, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	if err := transaction.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func (wr *walletRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.Wallet, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var result types.Wallet
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (wr *walletRepo) Update(ctx context.Context, tx *gorm.DB, wallet *types.Wallet) (*types.Wallet, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	wallet.LastUpdated = time.Now().UTC()
	if err := transaction.WithContext(ctx).Save(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func (wr *walletRepo) AddEarnings(ctx context.Context, tx *gorm.DB, userID string, amount float64) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"total_value":  gorm.Expr("total_value + ?", amount),
			"last_updated": time.Now().UTC(),
		}).Error
}

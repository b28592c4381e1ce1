package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type DreamInviteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, invite *types.DreamInvite) (*types.DreamInvite, error)
	GetByID(ctx context.Context, tx *gorm.DB, inviteID uuid.UUID) (*types.DreamInvite, error)
	GetPendingForWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.DreamInvite, error)
	GetPendingForDreamAndWallet(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, wallet string) (*types.DreamInvite, error)
	MarkResponded(ctx context.Context, tx *gorm.DB, inviteID uuid.UUID, status types.InviteStatus) error
}

type dreamInviteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDreamInviteRepo(db *gorm.DB, baseLog *logger.Logger) DreamInviteRepo {
	repoLog := baseLog.With("repo", "DreamInviteRepo")
	return &dreamInviteRepo{db: db, log: repoLog}
}

func (ir *dreamInviteRepo) Create(ctx context.Context, tx *gorm.DB, invite *types.DreamInvite) (*types.DreamInvite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if err := transaction.WithContext(ctx).Create(invite).Error; err != nil {
		return nil, err
	}
	return invite, nil
}

func (ir *dreamInviteRepo) GetByID(ctx context.Context, tx *gorm.DB, inviteID uuid.UUID) (*types.DreamInvite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var result types.DreamInvite
	if err := transaction.WithContext(ctx).
		Where("id = ?", inviteID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *dreamInviteRepo) GetPendingForWallet(ctx context.Context, tx *gorm.DB, wallet string) ([]*types.DreamInvite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.DreamInvite
	if err := transaction.WithContext(ctx).
		Where("invited_wallet = ? AND status = ?", wallet, types.InvitePending).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *dreamInviteRepo) GetPendingForDreamAndWallet(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, wallet string) (*types.DreamInvite, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var result types.DreamInvite
	if err := transaction.WithContext(ctx).
		Where("dream_id = ? AND invited_wallet = ? AND status = ?", dreamID, wallet, types.InvitePending).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *dreamInviteRepo) MarkResponded(ctx context.Context, tx *gorm.DB, inviteID uuid.UUID, status types.InviteStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.DreamInvite{}).
		Where("id = ?", inviteID).
		Updates(map[string]any{"status": status, "responded_at": &now}).Error
}

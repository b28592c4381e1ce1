package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error)
	GetByRecipient(ctx context.Context, tx *gorm.DB, wallet string, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, wallet string) (int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, wallet string) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *types.Notification) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if err := transaction.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (nr *notificationRepo) GetByRecipient(ctx context.Context, tx *gorm.DB, wallet string, unreadOnly bool) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	query := transaction.WithContext(ctx).Where("recipient_wallet = ?", wallet)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var results []*types.Notification
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]any{"is_read": true, "read_at": &now}).Error
}

func (nr *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, wallet string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	now := time.Now().UTC()
	res := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_wallet = ? AND is_read = ?", wallet, false).
		Updates(map[string]any{"is_read": true, "read_at": &now})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (nr *notificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, wallet string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_wallet = ? AND is_read = ?", wallet, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

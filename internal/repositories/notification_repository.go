package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"gorm.io/gorm"
)

// AllTypes disables the type filter of FetchForReceiver
const AllTypes = "all"

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	FetchForReceiver(ctx context.Context, receiverID uint, notificationType string) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, receiverID uint) (int64, error)
	UpdateReadStatus(ctx context.Context, id uint, isRead bool) (*models.Notification, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// FetchForReceiver returns the receiver's notifications newest first and then
// marks the receiver's unread notifications as read. The returned slice
// reflects the state before the update. Only rows the query returned, or rows
// outside the type filter, are marked, so a notification inserted after the
// read stays unread.
func (r *postgresNotificationRepository) FetchForReceiver(ctx context.Context, receiverID uint, notificationType string) ([]models.Notification, error) {
	var notifications []models.Notification
	filtered := notificationType != "" && notificationType != AllTypes

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("receiver_id = ?", receiverID)
		if filtered {
			query = query.Where("type = ?", notificationType)
		}
		if err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
			return err
		}

		unread := make([]uint, 0, len(notifications))
		for _, n := range notifications {
			if !n.IsRead {
				unread = append(unread, n.ID)
			}
		}

		update := tx.Model(&models.Notification{}).
			Where("receiver_id = ? AND is_read = ?", receiverID, false)
		if filtered {
			update = update.Where("(id IN ? OR type <> ?)", unread, notificationType)
		} else {
			if len(unread) == 0 {
				return nil
			}
			update = update.Where("id IN ?", unread)
		}
		return update.Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

// UpdateReadStatus sets is_read on a single notification. A missing id returns
// ErrNotFound without touching the table.
func (r *postgresNotificationRepository) UpdateReadStatus(ctx context.Context, id uint, isRead bool) (*models.Notification, error) {
	var notification models.Notification
	db := r.db.WithContext(ctx)
	if err := db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := db.Model(&notification).Update("is_read", isRead).Error; err != nil {
		return nil, err
	}
	notification.IsRead = isRead
	return &notification, nil
}

package notifications

import (
	"errors"
	"time"

	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct{}

func (r *NotificationRepository) CreateBatch(notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	for _, notification := range notifications {
		if notification.ID == uuid.Nil {
			notification.ID = uuid.New()
		}
		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = time.Now().UTC()
		}
	}

	return storage.GetDb().CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepository) GetByRecipient(
	recipientID uuid.UUID,
	limit, offset int,
	unreadOnly bool,
) ([]*Notification, error) {
	notifications := make([]*Notification, 0)

	query := storage.GetDb().Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error

	return notifications, err
}

func (r *NotificationRepository) CountUnread(recipientID uuid.UUID) (int64, error) {
	var count int64

	err := storage.GetDb().
		Model(&Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error

	return count, err
}

// GetByIDAndRecipient returns nil when the notification does not exist or
// belongs to someone else.
func (r *NotificationRepository) GetByIDAndRecipient(id, recipientID uuid.UUID) (*Notification, error) {
	var notification Notification

	err := storage.GetDb().
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepository) MarkAsRead(id uuid.UUID, readAt time.Time) error {
	return storage.GetDb().
		Model(&Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", readAt).Error
}

func (r *NotificationRepository) MarkAllAsRead(recipientID uuid.UUID, readAt time.Time) (int64, error) {
	result := storage.GetDb().
		Model(&Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", readAt)

	return result.RowsAffected, result.Error
}

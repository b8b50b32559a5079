package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is an inbox entry owned by its recipient.
type Notification struct {
	ID          uuid.UUID        `json:"id"          gorm:"column:id"`
	RecipientID uuid.UUID        `json:"recipientId" gorm:"column:recipient_id;index"`
	Kind        NotificationKind `json:"kind"        gorm:"column:kind"`
	Payload     datatypes.JSON   `json:"payload"     gorm:"column:payload;type:jsonb"`
	ReadAt      *time.Time       `json:"readAt"      gorm:"column:read_at"`
	CreatedAt   time.Time        `json:"createdAt"   gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

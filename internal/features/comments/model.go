package comments

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id;primaryKey"`
	TaskID    uuid.UUID `json:"taskId"    gorm:"column:task_id;index"`
	AuthorID  uuid.UUID `json:"authorId"  gorm:"column:author_id"`
	Message   string    `json:"message"   gorm:"column:message"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

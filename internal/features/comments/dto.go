package comments

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommentRequestDTO struct {
	TaskID  uuid.UUID `json:"taskId"`
	Message string    `json:"message"`
}

type CommentResponseDTO struct {
	ID         uuid.UUID `json:"id"         gorm:"column:id"`
	TaskID     uuid.UUID `json:"taskId"     gorm:"column:task_id"`
	Message    string    `json:"message"    gorm:"column:message"`
	AuthorID   uuid.UUID `json:"authorId"   gorm:"column:author_id"`
	AuthorName string    `json:"authorName" gorm:"column:author_name"`
	CreatedAt  time.Time `json:"createdAt"  gorm:"column:created_at"`
}

type ListCommentsResponseDTO struct {
	Comments []*CommentResponseDTO `json:"comments"`
}

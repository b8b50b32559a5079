package tasks

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID    `json:"id"          gorm:"column:id;primaryKey"`
	ProjectID   uuid.UUID    `json:"projectId"   gorm:"column:project_id;index"`
	Title       string       `json:"title"       gorm:"column:title"`
	Description *string      `json:"description" gorm:"column:description"`
	Status      TaskStatus   `json:"status"      gorm:"column:status"`
	Priority    TaskPriority `json:"priority"    gorm:"column:priority"`
	DueDate     *time.Time   `json:"dueDate"     gorm:"column:due_date"`
	CreatedAt   time.Time    `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updatedAt"   gorm:"column:updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskAssignee links a user to a task. It carries no role.
type TaskAssignee struct {
	TaskID    uuid.UUID `gorm:"column:task_id;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;primaryKey;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (TaskAssignee) TableName() string {
	return "task_assignees"
}

package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutation. Project and task ids are
// kept after the referenced rows are deleted.
type AuditLog struct {
	ID        uuid.UUID  `json:"id"        gorm:"column:id"`
	UserID    *uuid.UUID `json:"userId"    gorm:"column:user_id"`
	ProjectID *uuid.UUID `json:"projectId" gorm:"column:project_id"`
	TaskID    *uuid.UUID `json:"taskId"    gorm:"column:task_id;index"`
	Message   string     `json:"message"   gorm:"column:message"`
	CreatedAt time.Time  `json:"createdAt" gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

package audit_logs

import (
	"time"

	"github.com/google/uuid"
)

type GetAuditLogsRequest struct {
	Limit      int        `form:"limit"      json:"limit"`
	Offset     int        `form:"offset"     json:"offset"`
	BeforeDate *time.Time `form:"beforeDate" json:"beforeDate"`
}

type GetAuditLogsResponse struct {
	AuditLogs []*AuditLogDTO `json:"auditLogs"`
	Total     int64          `json:"total"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

// AuditLogDTO is an entry joined with the actor and project it names. Joined
// fields are nil once the user or project is gone.
type AuditLogDTO struct {
	ID          uuid.UUID  `json:"id"          gorm:"column:id"`
	UserID      *uuid.UUID `json:"userId"      gorm:"column:user_id"`
	ProjectID   *uuid.UUID `json:"projectId"   gorm:"column:project_id"`
	TaskID      *uuid.UUID `json:"taskId"      gorm:"column:task_id"`
	Message     string     `json:"message"     gorm:"column:message"`
	CreatedAt   time.Time  `json:"createdAt"   gorm:"column:created_at"`
	UserEmail   *string    `json:"userEmail"   gorm:"column:user_email"`
	UserName    *string    `json:"userName"    gorm:"column:user_name"`
	ProjectName *string    `json:"projectName" gorm:"column:project_name"`
}

// auditLogFilter narrows a listing. Nil fields do not filter.
type auditLogFilter struct {
	UserID     *uuid.UUID
	ProjectID  *uuid.UUID
	TaskID     *uuid.UUID
	BeforeDate *time.Time
}

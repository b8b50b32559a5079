package tasks

import (
	"taskflow/internal/features/audit_logs"
	"taskflow/internal/features/notifications"
	projects_models "taskflow/internal/features/projects/models"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"

	"github.com/google/uuid"
)

type ProjectReader interface {
	GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error)
	GetUserProjectRole(projectID, userID uuid.UUID) (*users_enums.ProjectRole, error)
}

type UserReader interface {
	GetUsersByIDs(userIDs []uuid.UUID) ([]*users_models.User, error)
}

type NotificationSender interface {
	Deliver(outgoing []*notifications.Outgoing)
}

// TaskAuditLog records and lists the history of single tasks.
type TaskAuditLog interface {
	WriteTaskAuditLog(message string, userID *uuid.UUID, projectID uuid.UUID, taskID uuid.UUID)
	GetTaskAuditLogs(
		taskID uuid.UUID,
		request *audit_logs.GetAuditLogsRequest,
	) (*audit_logs.GetAuditLogsResponse, error)
}

// TaskCommentsReader loads the comments shown with tasks.
type TaskCommentsReader interface {
	GetTaskComments(taskID uuid.UUID) ([]*TaskCommentDTO, error)
	CountTaskComments(taskIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// TaskDeletionListener removes data tasks own before the task rows go away.
type TaskDeletionListener interface {
	OnBeforeTasksDeletion(taskIDs []uuid.UUID) error
}

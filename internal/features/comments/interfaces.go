package comments

import (
	"taskflow/internal/features/tasks"
	users_enums "taskflow/internal/features/users/enums"

	"github.com/google/uuid"
)

type TaskReader interface {
	GetTaskByID(taskID uuid.UUID) (*tasks.Task, error)
}

type ProjectRoleReader interface {
	GetUserProjectRole(projectID, userID uuid.UUID) (*users_enums.ProjectRole, error)
}

type AuditLogWriter interface {
	WriteTaskAuditLog(message string, userID *uuid.UUID, projectID uuid.UUID, taskID uuid.UUID)
}

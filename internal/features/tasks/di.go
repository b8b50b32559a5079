package tasks

import (
	"sync"

	"taskflow/internal/features/audit_logs"
	"taskflow/internal/features/notifications"
	projects_services "taskflow/internal/features/projects/services"
	users_services "taskflow/internal/features/users/services"
	"taskflow/internal/util/logger"
)

var taskRepository = &TaskRepository{}

var taskService = &TaskService{
	taskRepository:     taskRepository,
	projectReader:      projects_services.GetProjectService(),
	userReader:         users_services.GetUserService(),
	notificationSender: notifications.GetNotificationService(),
	taskAuditLog:       audit_logs.GetAuditLogService(),
	logger:             logger.GetLogger(),
}

var taskController = &TaskController{
	taskService,
}

var setupOnce sync.Once

func GetTaskService() *TaskService {
	return taskService
}

func GetTaskController() *TaskController {
	return taskController
}

// SetupDependencies registers the task service for project deletions. Safe to
// call more than once.
func SetupDependencies() {
	setupOnce.Do(func() {
		projects_services.GetProjectService().AddProjectDeletionListener(taskService)
	})
}

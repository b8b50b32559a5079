package comments

import (
	"sync"

	"taskflow/internal/features/audit_logs"
	projects_services "taskflow/internal/features/projects/services"
	"taskflow/internal/features/tasks"
)

var commentRepository = &CommentRepository{}

var commentService = &CommentService{
	commentRepository: commentRepository,
	taskReader:        tasks.GetTaskService(),
	roleReader:        projects_services.GetProjectService(),
	auditLogWriter:    audit_logs.GetAuditLogService(),
}

var commentController = &CommentController{
	commentService,
}

var setupOnce sync.Once

func GetCommentService() *CommentService {
	return commentService
}

func GetCommentController() *CommentController {
	return commentController
}

// SetupDependencies lets tasks load and clean up their comments. Safe to call
// more than once.
func SetupDependencies() {
	setupOnce.Do(func() {
		tasks.GetTaskService().SetCommentsReader(commentService)
		tasks.GetTaskService().AddTaskDeletionListener(commentService)
	})
}

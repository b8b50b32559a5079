package comments

import (
	"fmt"
	"strings"
	"time"

	"taskflow/internal/features/access"
	"taskflow/internal/features/tasks"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepository *CommentRepository
	taskReader        TaskReader
	roleReader        ProjectRoleReader
	auditLogWriter    AuditLogWriter
}

func (s *CommentService) CreateComment(
	request *CreateCommentRequestDTO,
	author *users_models.User,
) (*CommentResponseDTO, error) {
	if request.TaskID == uuid.Nil {
		return nil, service_errors.Validation("task id is required")
	}

	task, err := s.taskReader.GetTaskByID(request.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, service_errors.Validation("task does not exist")
	}

	role, err := s.roleReader.GetUserProjectRole(task.ProjectID, author.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionComment, access.Facts{}) {
		return nil, service_errors.Forbidden("you are not a member of the task's project")
	}

	message := strings.TrimSpace(request.Message)
	if message == "" {
		return nil, service_errors.Validation("message is required")
	}

	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    task.ID,
		AuthorID:  author.ID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.commentRepository.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.auditLogWriter.WriteTaskAuditLog(fmt.Sprintf("Comment added to task: %s", task.Title), &author.ID, task.ProjectID, task.ID)

	return &CommentResponseDTO{
		ID:         comment.ID,
		TaskID:     comment.TaskID,
		Message:    comment.Message,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

func (s *CommentService) GetComments(taskID uuid.UUID, user *users_models.User) (*ListCommentsResponseDTO, error) {
	task, err := s.taskReader.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, service_errors.NotFound("task not found")
	}

	role, err := s.roleReader.GetUserProjectRole(task.ProjectID, user.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanPerform(role, access.ActionViewProject, access.Facts{}) {
		return nil, service_errors.Forbidden("you are not a member of the task's project")
	}

	comments, err := s.commentRepository.GetCommentsByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	return &ListCommentsResponseDTO{Comments: comments}, nil
}

// DeleteComment is allowed to the comment's author and to the project
// owner, as long as they still belong to the project.
func (s *CommentService) DeleteComment(commentID uuid.UUID, user *users_models.User) error {
	comment, err := s.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return service_errors.NotFound("comment not found")
	}

	task, err := s.taskReader.GetTaskByID(comment.TaskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return service_errors.NotFound("task not found")
	}

	role, err := s.roleReader.GetUserProjectRole(task.ProjectID, user.ID)
	if err != nil {
		return err
	}

	facts := access.Facts{IsAuthor: comment.AuthorID == user.ID}
	if !access.CanPerform(role, access.ActionDeleteComment, facts) {
		return service_errors.Forbidden("only the comment author or project owner can delete this comment")
	}

	if err := s.commentRepository.DeleteComment(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.auditLogWriter.WriteTaskAuditLog(fmt.Sprintf("Comment deleted from task: %s", task.Title), &user.ID, task.ProjectID, task.ID)

	return nil
}

func (s *CommentService) GetTaskComments(taskID uuid.UUID) ([]*tasks.TaskCommentDTO, error) {
	comments, err := s.commentRepository.GetCommentsByTask(taskID)
	if err != nil {
		return nil, err
	}

	result := make([]*tasks.TaskCommentDTO, 0, len(comments))
	for _, comment := range comments {
		result = append(result, &tasks.TaskCommentDTO{
			ID:         comment.ID,
			Message:    comment.Message,
			AuthorID:   comment.AuthorID,
			AuthorName: comment.AuthorName,
			CreatedAt:  comment.CreatedAt,
		})
	}

	return result, nil
}

func (s *CommentService) CountTaskComments(taskIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.commentRepository.CountCommentsByTasks(taskIDs)
}

func (s *CommentService) OnBeforeTasksDeletion(taskIDs []uuid.UUID) error {
	if err := s.commentRepository.DeleteCommentsByTasks(taskIDs); err != nil {
		return fmt.Errorf("failed to delete task comments: %w", err)
	}

	return nil
}

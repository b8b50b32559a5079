package tasks

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequestDTO struct {
	ProjectID     uuid.UUID    `json:"projectId"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	DueDate       *string      `json:"dueDate"`
	AssignedUsers []uuid.UUID  `json:"assignedUsers"`
}

// UpdateTaskRequestDTO changes only the fields that are present. An empty
// DueDate clears it; a non-nil AssignedUsers replaces the assignee set.
type UpdateTaskRequestDTO struct {
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	Status        *TaskStatus   `json:"status"`
	Priority      *TaskPriority `json:"priority"`
	DueDate       *string       `json:"dueDate"`
	AssignedUsers []uuid.UUID   `json:"assignedUsers"`
}

// touchesDetails reports whether the update names a field beyond status and
// priority. An empty DueDate counts, since it clears the date.
func (r *UpdateTaskRequestDTO) touchesDetails() bool {
	return r.Title != nil || r.Description != nil || r.DueDate != nil
}

type UpdateTaskStatusRequestDTO struct {
	Status TaskStatus `json:"status"`
}

type UpdateTaskPriorityRequestDTO struct {
	Priority TaskPriority `json:"priority"`
}

type UpdateTaskAssigneesRequestDTO struct {
	AssignedUsers []uuid.UUID `json:"assignedUsers"`
}

// GetTasksRequest filters the task listing. Nil fields do not filter.
type GetTasksRequest struct {
	ProjectID *uuid.UUID
	Status    *TaskStatus
	Priority  *TaskPriority
}

type TaskUserDTO struct {
	ID    uuid.UUID `json:"id"    gorm:"column:id"`
	Name  string    `json:"name"  gorm:"column:name"`
	Email string    `json:"email" gorm:"column:email"`
}

// TaskCommentDTO is a comment as shown inside a task.
type TaskCommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TaskResponseDTO struct {
	ID           uuid.UUID         `json:"id"`
	ProjectID    uuid.UUID         `json:"projectId"`
	ProjectName  string            `json:"projectName"`
	Title        string            `json:"title"`
	Description  *string           `json:"description"`
	Status       TaskStatus        `json:"status"`
	Priority     TaskPriority      `json:"priority"`
	DueDate      *time.Time        `json:"dueDate"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Assignees    []TaskUserDTO     `json:"assignees"`
	CommentCount int64             `json:"commentCount"`
	Comments     []*TaskCommentDTO `json:"comments,omitempty"`
}

type ListTasksResponseDTO struct {
	Tasks []*TaskResponseDTO `json:"tasks"`
}

package tasks

import (
	"errors"
	"time"

	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct{}

// CreateTaskWithAssignees stores the task and its assignee links in one
// transaction.
func (r *TaskRepository) CreateTaskWithAssignees(task *Task, assigneeIDs []uuid.UUID) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return insertAssignees(tx, task.ID, assigneeIDs, now)
	})
}

func (r *TaskRepository) GetTaskByID(taskID uuid.UUID) (*Task, error) {
	var task Task

	if err := storage.GetDb().Where("id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &task, nil
}

// GetTasksForUser returns tasks of the projects userID is a member of.
func (r *TaskRepository) GetTasksForUser(userID uuid.UUID, request *GetTasksRequest) ([]*Task, error) {
	tasks := make([]*Task, 0)

	query := storage.GetDb().
		Where("project_id IN (SELECT project_id FROM project_memberships WHERE user_id = ?)", userID)

	if request.ProjectID != nil {
		query = query.Where("project_id = ?", *request.ProjectID)
	}
	if request.Status != nil {
		query = query.Where("status = ?", *request.Status)
	}
	if request.Priority != nil {
		query = query.Where("priority = ?", *request.Priority)
	}

	err := query.Order("created_at DESC, id").Find(&tasks).Error

	return tasks, err
}

func (r *TaskRepository) GetTaskIDsByProject(projectID uuid.UUID) ([]uuid.UUID, error) {
	var taskIDs []uuid.UUID

	err := storage.GetDb().
		Model(&Task{}).
		Where("project_id = ?", projectID).
		Pluck("id", &taskIDs).Error

	return taskIDs, err
}

func (r *TaskRepository) GetAssigneeIDs(taskID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	err := storage.GetDb().
		Model(&TaskAssignee{}).
		Where("task_id = ?", taskID).
		Order("created_at, user_id").
		Pluck("user_id", &userIDs).Error

	return userIDs, err
}

// GetAssignees loads the assigned users of every given task, keyed by task.
func (r *TaskRepository) GetAssignees(taskIDs []uuid.UUID) (map[uuid.UUID][]TaskUserDTO, error) {
	result := make(map[uuid.UUID][]TaskUserDTO, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		TaskID uuid.UUID `gorm:"column:task_id"`
		TaskUserDTO
	}

	err := storage.GetDb().
		Table("task_assignees ta").
		Select("ta.task_id, u.id, u.name, u.email").
		Joins("JOIN users u ON u.id = ta.user_id").
		Where("ta.task_id IN ?", taskIDs).
		Order("ta.created_at, u.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], row.TaskUserDTO)
	}

	return result, nil
}

func (r *TaskRepository) GetProjectNames(projectIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID `gorm:"column:id"`
		Name string    `gorm:"column:name"`
	}

	err := storage.GetDb().
		Table("projects").
		Select("id, name").
		Where("id IN ?", projectIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}

	return names, nil
}

// UpdateTask saves the task fields. A non-nil assigneeIDs replaces the
// assignee set in the same transaction.
func (r *TaskRepository) UpdateTask(task *Task, assigneeIDs []uuid.UUID) error {
	now := time.Now().UTC()
	task.UpdatedAt = now

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if assigneeIDs == nil {
			return nil
		}

		return replaceAssignees(tx, task.ID, assigneeIDs, now)
	})
}

func (r *TaskRepository) ReplaceAssignees(taskID uuid.UUID, assigneeIDs []uuid.UUID) error {
	now := time.Now().UTC()

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := replaceAssignees(tx, taskID, assigneeIDs, now); err != nil {
			return err
		}

		return tx.Model(&Task{}).Where("id = ?", taskID).Update("updated_at", now).Error
	})
}

func (r *TaskRepository) DeleteTask(taskID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&TaskAssignee{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", taskID).Delete(&Task{}).Error
	})
}

func (r *TaskRepository) DeleteTasksByProject(projectID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("task_id IN (SELECT id FROM tasks WHERE project_id = ?)", projectID).
			Delete(&TaskAssignee{}).Error
		if err != nil {
			return err
		}

		return tx.Where("project_id = ?", projectID).Delete(&Task{}).Error
	})
}

func replaceAssignees(tx *gorm.DB, taskID uuid.UUID, assigneeIDs []uuid.UUID, now time.Time) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&TaskAssignee{}).Error; err != nil {
		return err
	}

	return insertAssignees(tx, taskID, assigneeIDs, now)
}

func insertAssignees(tx *gorm.DB, taskID uuid.UUID, assigneeIDs []uuid.UUID, now time.Time) error {
	if len(assigneeIDs) == 0 {
		return nil
	}

	links := make([]*TaskAssignee, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		links = append(links, &TaskAssignee{TaskID: taskID, UserID: userID, CreatedAt: now})
	}

	return tx.Create(&links).Error
}

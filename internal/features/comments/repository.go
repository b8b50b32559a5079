package comments

import (
	"errors"
	"time"

	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository struct{}

func (r *CommentRepository) CreateComment(comment *Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(comment).Error
}

func (r *CommentRepository) GetCommentByID(commentID uuid.UUID) (*Comment, error) {
	var comment Comment

	if err := storage.GetDb().Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &comment, nil
}

// GetCommentsByTask returns the task's comments newest first with their
// author names.
func (r *CommentRepository) GetCommentsByTask(taskID uuid.UUID) ([]*CommentResponseDTO, error) {
	comments := make([]*CommentResponseDTO, 0)

	err := storage.GetDb().
		Table("comments c").
		Select("c.id, c.task_id, c.message, c.author_id, c.created_at, COALESCE(u.name, '') as author_name").
		Joins("LEFT JOIN users u ON u.id = c.author_id").
		Where("c.task_id = ?", taskID).
		Order("c.created_at DESC, c.id").
		Scan(&comments).Error

	return comments, err
}

func (r *CommentRepository) CountCommentsByTasks(taskIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID uuid.UUID `gorm:"column:task_id"`
		Count  int64     `gorm:"column:count"`
	}

	err := storage.GetDb().
		Model(&Comment{}).
		Select("task_id, COUNT(*) as count").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TaskID] = row.Count
	}

	return counts, nil
}

func (r *CommentRepository) DeleteComment(commentID uuid.UUID) error {
	return storage.GetDb().Where("id = ?", commentID).Delete(&Comment{}).Error
}

func (r *CommentRepository) DeleteCommentsByTasks(taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}

	return storage.GetDb().Where("task_id IN ?", taskIDs).Delete(&Comment{}).Error
}

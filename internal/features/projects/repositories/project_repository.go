package projects_repositories

import (
	"errors"
	"time"

	projects_models "taskflow/internal/features/projects/models"
	users_enums "taskflow/internal/features/users/enums"
	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct{}

// CreateProjectWithMembers stores the project and its initial membership map
// in one transaction.
func (r *ProjectRepository) CreateProjectWithMembers(
	project *projects_models.Project,
	roles map[uuid.UUID]users_enums.ProjectRole,
) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	project.UpdatedAt = project.CreatedAt

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		return syncMembers(tx, project.ID, roles)
	})
}

func (r *ProjectRepository) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	var project projects_models.Project

	if err := storage.GetDb().Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

// UpdateProject saves name and description. A non-nil roles map replaces the
// membership set in the same transaction.
func (r *ProjectRepository) UpdateProject(
	project *projects_models.Project,
	roles map[uuid.UUID]users_enums.ProjectRole,
) error {
	project.UpdatedAt = time.Now().UTC()

	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&projects_models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]any{
				"name":        project.Name,
				"description": project.Description,
				"updated_at":  project.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		if roles == nil {
			return nil
		}

		return syncMembers(tx, project.ID, roles)
	})
}

func (r *ProjectRepository) DeleteProject(projectID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).
			Delete(&projects_models.ProjectMembership{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", projectID).Delete(&projects_models.Project{}).Error
	})
}

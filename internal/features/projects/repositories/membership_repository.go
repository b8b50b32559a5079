package projects_repositories

import (
	"errors"
	"time"

	projects_dto "taskflow/internal/features/projects/dto"
	projects_models "taskflow/internal/features/projects/models"
	users_enums "taskflow/internal/features/users/enums"
	"taskflow/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct{}

// SyncMembers makes roles the complete membership of the project: users
// missing from roles lose their membership, the rest are upserted.
func (r *MembershipRepository) SyncMembers(projectID uuid.UUID, roles map[uuid.UUID]users_enums.ProjectRole) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		return syncMembers(tx, projectID, roles)
	})
}

func syncMembers(tx *gorm.DB, projectID uuid.UUID, roles map[uuid.UUID]users_enums.ProjectRole) error {
	keepUserIDs := make([]uuid.UUID, 0, len(roles))
	for userID := range roles {
		keepUserIDs = append(keepUserIDs, userID)
	}

	removeQuery := tx.Where("project_id = ?", projectID)
	if len(keepUserIDs) > 0 {
		removeQuery = removeQuery.Where("user_id NOT IN ?", keepUserIDs)
	}

	if err := removeQuery.Delete(&projects_models.ProjectMembership{}).Error; err != nil {
		return err
	}

	if len(roles) == 0 {
		return nil
	}

	now := time.Now().UTC()
	memberships := make([]*projects_models.ProjectMembership, 0, len(roles))
	for userID, role := range roles {
		memberships = append(memberships, &projects_models.ProjectMembership{
			ID:        uuid.New(),
			UserID:    userID,
			ProjectID: projectID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(&memberships).Error
}

func (r *MembershipRepository) GetUserProjectRole(projectID, userID uuid.UUID) (*users_enums.ProjectRole, error) {
	var membership projects_models.ProjectMembership
	err := storage.GetDb().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &membership.Role, nil
}

func (r *MembershipRepository) GetProjectMemberIDs(projectID uuid.UUID) ([]uuid.UUID, error) {
	userIDs := make([]uuid.UUID, 0)

	err := storage.GetDb().
		Model(&projects_models.ProjectMembership{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &userIDs).Error

	return userIDs, err
}

func (r *MembershipRepository) GetProjectMembers(
	projectID uuid.UUID,
) ([]projects_dto.ProjectMemberResponseDTO, error) {
	members := make([]projects_dto.ProjectMemberResponseDTO, 0)

	err := storage.GetDb().
		Table("project_memberships pm").
		Select("pm.id, pm.user_id, u.name, u.email, pm.role, pm.created_at").
		Joins("JOIN users u ON pm.user_id = u.id").
		Where("pm.project_id = ?", projectID).
		Order("pm.created_at ASC, u.name ASC").
		Scan(&members).Error

	return members, err
}

// GetProjectsWithRolesByUserID lists the projects the user belongs to with the
// user's role and the number of tasks in each project.
func (r *MembershipRepository) GetProjectsWithRolesByUserID(userID uuid.UUID) ([]projects_dto.ProjectResponseDTO, error) {
	results := make([]projects_dto.ProjectResponseDTO, 0)

	err := storage.GetDb().
		Table("projects p").
		Select(`p.id, p.name, p.description, p.creator_id, p.created_at, pm.role as user_role,
			(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) as task_count`).
		Joins("JOIN project_memberships pm ON p.id = pm.project_id").
		Where("pm.user_id = ?", userID).
		Order("p.name ASC").
		Scan(&results).Error

	return results, err
}

package projects_dto

import (
	"time"

	users_enums "taskflow/internal/features/users/enums"

	"github.com/google/uuid"
)

// MembersInput maps user ids to the role they should hold. An empty role
// means member.
type MembersInput map[uuid.UUID]users_enums.ProjectRole

type CreateProjectRequestDTO struct {
	Name        string       `json:"name"        binding:"required,max=255"`
	Description *string      `json:"description"`
	Members     MembersInput `json:"members"`
}

// UpdateProjectRequestDTO replaces name and description. A non-nil Members
// replaces the whole membership set.
type UpdateProjectRequestDTO struct {
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Members     MembersInput `json:"members"`
}

type ProjectResponseDTO struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	CreatorID   uuid.UUID `json:"creatorId"   gorm:"column:creator_id"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
	TaskCount   int64     `json:"taskCount"   gorm:"column:task_count"`

	// User's role in this project (populated when fetching for specific user)
	UserRole *users_enums.ProjectRole `json:"userRole,omitempty" gorm:"column:user_role"`
}

type ProjectDetailsResponseDTO struct {
	ProjectResponseDTO
	Members []ProjectMemberResponseDTO `json:"members"`
}

type ListProjectsResponseDTO struct {
	Projects []ProjectResponseDTO `json:"projects"`
}

type ProjectMemberResponseDTO struct {
	ID        uuid.UUID               `json:"id"        gorm:"column:id"`
	UserID    uuid.UUID               `json:"userId"    gorm:"column:user_id"`
	Name      string                  `json:"name"      gorm:"column:name"`
	Email     string                  `json:"email"     gorm:"column:email"`
	Role      users_enums.ProjectRole `json:"role"      gorm:"column:role"`
	CreatedAt time.Time               `json:"createdAt" gorm:"column:created_at"`
}

type GetMembersResponseDTO struct {
	Members []ProjectMemberResponseDTO `json:"members"`
}

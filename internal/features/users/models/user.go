package users_models

import (
	"time"

	users_enums "taskflow/internal/features/users/enums"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID            `json:"id"`
	Name                 string               `json:"name"`
	Email                string               `json:"email"`
	HashedPassword       *string              `json:"-"         gorm:"column:hashed_password"`
	PasswordCreationTime time.Time            `json:"-"         gorm:"column:password_creation_time"`
	Role                 users_enums.UserRole `json:"role"`
	CreatedAt            time.Time            `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// IsGlobalAdmin reports the system-wide admin flag. It is independent of any
// project membership.
func (u *User) IsGlobalAdmin() bool {
	return u.Role == users_enums.UserRoleAdmin
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != nil && *u.HashedPassword != ""
}

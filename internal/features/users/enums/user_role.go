package users_enums

type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleRegular UserRole = "REGULAR"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleRegular:
		return true
	default:
		return false
	}
}

package users_enums

type ProjectRole string

const (
	ProjectRoleOwner   ProjectRole = "owner"
	ProjectRoleManager ProjectRole = "manager"
	ProjectRoleMember  ProjectRole = "member"
)

func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleManager, ProjectRoleMember:
		return true
	default:
		return false
	}
}

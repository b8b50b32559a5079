package projects_services

import (
	projects_dto "taskflow/internal/features/projects/dto"
	users_enums "taskflow/internal/features/users/enums"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
)

// BuildMembershipRoles turns a requested member map into the complete role
// map of a project. The creator is always owner whatever the input says for
// them; nobody else can be made owner.
func BuildMembershipRoles(
	creatorID uuid.UUID,
	input projects_dto.MembersInput,
) (map[uuid.UUID]users_enums.ProjectRole, error) {
	roles := make(map[uuid.UUID]users_enums.ProjectRole, len(input)+1)

	for userID, role := range input {
		if userID == creatorID {
			continue
		}

		if userID == uuid.Nil {
			return nil, service_errors.Validation("member user id is required")
		}

		if role == "" {
			role = users_enums.ProjectRoleMember
		}

		if !role.IsValid() {
			return nil, service_errors.Validation("invalid role %q for user %s", role, userID)
		}

		if role == users_enums.ProjectRoleOwner {
			return nil, service_errors.Validation("only the project creator can be owner")
		}

		roles[userID] = role
	}

	roles[creatorID] = users_enums.ProjectRoleOwner

	return roles, nil
}

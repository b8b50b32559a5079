package projects_services

import (
	"testing"

	projects_dto "taskflow/internal/features/projects/dto"
	users_enums "taskflow/internal/features/users/enums"
	"taskflow/internal/util/service_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildMembershipRoles_WhenCreatorListedAsMember_CreatorStaysOwner(t *testing.T) {
	creator, manager, member := uuid.New(), uuid.New(), uuid.New()

	roles, err := BuildMembershipRoles(creator, projects_dto.MembersInput{
		manager: users_enums.ProjectRoleManager,
		member:  users_enums.ProjectRoleMember,
		creator: users_enums.ProjectRoleMember,
	})

	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{
		creator: users_enums.ProjectRoleOwner,
		manager: users_enums.ProjectRoleManager,
		member:  users_enums.ProjectRoleMember,
	}, roles)
}

func Test_BuildMembershipRoles_WhenInputEmpty_OnlyCreatorRemains(t *testing.T) {
	creator := uuid.New()

	roles, err := BuildMembershipRoles(creator, nil)

	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{creator: users_enums.ProjectRoleOwner}, roles)
}

func Test_BuildMembershipRoles_WhenRoleEmpty_DefaultsToMember(t *testing.T) {
	creator, user := uuid.New(), uuid.New()

	roles, err := BuildMembershipRoles(creator, projects_dto.MembersInput{user: ""})

	require.NoError(t, err)
	assert.Equal(t, users_enums.ProjectRoleMember, roles[user])
}

func Test_BuildMembershipRoles_WhenRoleInvalidOrOwner_ReturnsValidationFailed(t *testing.T) {
	creator, user := uuid.New(), uuid.New()

	_, err := BuildMembershipRoles(creator, projects_dto.MembersInput{user: "superuser"})
	assert.True(t, service_errors.Is(err, service_errors.KindValidationFailed))

	_, err = BuildMembershipRoles(creator, projects_dto.MembersInput{user: users_enums.ProjectRoleOwner})
	assert.True(t, service_errors.Is(err, service_errors.KindValidationFailed))

	_, err = BuildMembershipRoles(creator, projects_dto.MembersInput{uuid.Nil: users_enums.ProjectRoleMember})
	assert.True(t, service_errors.Is(err, service_errors.KindValidationFailed))
}

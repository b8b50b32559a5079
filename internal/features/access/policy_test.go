package access

import (
	"fmt"
	"testing"

	users_enums "taskflow/internal/features/users/enums"

	"github.com/stretchr/testify/assert"
)

func rolePtr(role users_enums.ProjectRole) *users_enums.ProjectRole {
	return &role
}

func Test_CanPerform_MatchesRoleTable(t *testing.T) {
	owner := rolePtr(users_enums.ProjectRoleOwner)
	manager := rolePtr(users_enums.ProjectRoleManager)
	member := rolePtr(users_enums.ProjectRoleMember)

	testCases := []struct {
		action  Action
		facts   Facts
		owner   bool
		manager bool
		member  bool
	}{
		{ActionCreateTask, Facts{}, true, true, false},
		{ActionUpdateTaskFields, Facts{IsAssignee: true}, true, true, true},
		{ActionUpdateTaskFields, Facts{}, true, true, false},
		{ActionReassignTask, Facts{IsAssignee: true}, true, true, false},
		{ActionUpdateTaskStatus, Facts{IsAssignee: true}, true, true, true},
		{ActionUpdateTaskStatus, Facts{}, true, true, false},
		{ActionDeleteTask, Facts{}, true, false, false},
		{ActionViewProject, Facts{}, true, true, true},
		{ActionComment, Facts{}, true, true, true},
		{ActionUpdateProject, Facts{}, true, true, false},
		{ActionDeleteProject, Facts{}, true, false, false},
		{ActionDeleteComment, Facts{}, true, false, false},
		{ActionDeleteComment, Facts{IsAuthor: true}, true, true, true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%+v", tc.action, tc.facts), func(t *testing.T) {
			assert.Equal(t, tc.owner, CanPerform(owner, tc.action, tc.facts), "owner")
			assert.Equal(t, tc.manager, CanPerform(manager, tc.action, tc.facts), "manager")
			assert.Equal(t, tc.member, CanPerform(member, tc.action, tc.facts), "member")
		})
	}
}

func Test_CanPerform_WhenActorIsNotMember_DeniesEveryAction(t *testing.T) {
	allFacts := Facts{IsAssignee: true, IsAuthor: true}

	actions := []Action{
		ActionCreateTask,
		ActionUpdateTaskFields,
		ActionReassignTask,
		ActionUpdateTaskStatus,
		ActionDeleteTask,
		ActionViewProject,
		ActionComment,
		ActionUpdateProject,
		ActionDeleteProject,
		ActionDeleteComment,
	}

	for _, action := range actions {
		assert.False(t, CanPerform(nil, action, allFacts), string(action))
	}
}

func Test_CanPerform_WhenGlobalAdmin_OverridesOnlyProjectDeletion(t *testing.T) {
	admin := Facts{IsGlobalAdmin: true}

	assert.True(t, CanPerform(nil, ActionDeleteProject, admin))
	assert.True(t, CanPerform(rolePtr(users_enums.ProjectRoleManager), ActionDeleteProject, admin))
	assert.True(t, CanPerform(rolePtr(users_enums.ProjectRoleMember), ActionDeleteProject, admin))

	assert.False(t, CanPerform(rolePtr(users_enums.ProjectRoleManager), ActionDeleteTask, admin))
	assert.False(t, CanPerform(nil, ActionDeleteTask, admin))
	assert.False(t, CanPerform(nil, ActionViewProject, admin))
}

func Test_CanPerform_WhenActionUnknown_Denies(t *testing.T) {
	assert.False(t, CanPerform(rolePtr(users_enums.ProjectRoleOwner), Action("archive_project"), Facts{}))
}

func Test_CanPerform_WhenRoleUnknown_DeniesRoleGatedActions(t *testing.T) {
	unknown := rolePtr(users_enums.ProjectRole("guest"))

	assert.False(t, CanPerform(unknown, ActionCreateTask, Facts{}))
	assert.False(t, CanPerform(unknown, ActionViewProject, Facts{}))
	assert.False(t, CanPerform(unknown, ActionUpdateTaskStatus, Facts{IsAssignee: true}))
}

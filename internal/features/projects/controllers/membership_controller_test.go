package projects_controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	projects_dto "taskflow/internal/features/projects/dto"
	projects_services "taskflow/internal/features/projects/services"
	projects_testing "taskflow/internal/features/projects/testing"
	users_enums "taskflow/internal/features/users/enums"
	users_testing "taskflow/internal/features/users/testing"
	test_utils "taskflow/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membersEnvelope struct {
	Data projects_dto.GetMembersResponseDTO `json:"data"`
}

func Test_SyncMembers_WhenCreatorListedAsMember_CreatorStaysOwner(t *testing.T) {
	router := createProjectTestRouter(t)
	creator := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	user2 := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	user3 := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("P", creator, nil)

	request := map[string]string{
		user2.UserID.String():   "manager",
		user3.UserID.String():   "member",
		creator.UserID.String(): "member",
	}

	var envelope membersEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+project.ID.String()+"/members",
		"Bearer "+creator.Token, request, http.StatusOK)
	require.NoError(t, jsonUnmarshal(resp.Body, &envelope))

	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{
		creator.UserID: users_enums.ProjectRoleOwner,
		user2.UserID:   users_enums.ProjectRoleManager,
		user3.UserID:   users_enums.ProjectRoleMember,
	}, rolesOf(envelope.Data.Members))

	role, err := projects_services.GetMembershipService().GetUserProjectRole(project.ID, creator.UserID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, users_enums.ProjectRoleOwner, *role)
}

func Test_SyncMembers_WhenEmptyMap_OnlyCreatorRemains(t *testing.T) {
	router := createProjectTestRouter(t)
	creator := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("P", creator, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	var envelope membersEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+project.ID.String()+"/members",
		"Bearer "+creator.Token, map[string]string{}, http.StatusOK)
	require.NoError(t, jsonUnmarshal(resp.Body, &envelope))

	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{
		creator.UserID: users_enums.ProjectRoleOwner,
	}, rolesOf(envelope.Data.Members))
}

func Test_SyncMembers_WhenActorIsMember_ReturnsForbidden(t *testing.T) {
	router := createProjectTestRouter(t)
	creator := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("P", creator, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+project.ID.String()+"/members",
		"Bearer "+member.Token, map[string]string{}, http.StatusForbidden)
}

func Test_SyncMembers_WhenProjectMissing_ReturnsNotFound(t *testing.T) {
	router := createProjectTestRouter(t)
	user := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+uuid.NewString()+"/members",
		"Bearer "+user.Token, map[string]string{}, http.StatusNotFound)
}

func Test_GetProjectMembers_WithDifferentUsers_EnforcesMembership(t *testing.T) {
	router := createProjectTestRouter(t)
	creator := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("P", creator, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})
	url := "/api/v1/projects/" + project.ID.String() + "/members"

	var envelope membersEnvelope
	test_utils.MakeGetRequestAndUnmarshal(t, router, url, "Bearer "+member.Token, http.StatusOK, &envelope)
	assert.Len(t, envelope.Data.Members, 2)

	for _, m := range envelope.Data.Members {
		assert.NotEmpty(t, m.Email)
		assert.NotEmpty(t, m.Name)
	}

	test_utils.MakeGetRequest(t, router, url, "Bearer "+outsider.Token, http.StatusForbidden)
}

func jsonUnmarshal(body []byte, target any) error {
	return json.Unmarshal(body, target)
}

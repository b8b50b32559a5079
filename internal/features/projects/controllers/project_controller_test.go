package projects_controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_testing "taskflow/internal/features/projects/testing"
	"taskflow/internal/features/tasks"
	users_enums "taskflow/internal/features/users/enums"
	users_testing "taskflow/internal/features/users/testing"
	test_utils "taskflow/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectEnvelope struct {
	Success bool                                   `json:"success"`
	Data    projects_dto.ProjectDetailsResponseDTO `json:"data"`
	Error   string                                 `json:"error"`
}

func Test_CreateProject_WithMembers_CreatorIsOwnerAndMembersSynced(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	request := map[string]any{
		"name":        "Website",
		"description": "Marketing site",
		"members": map[string]string{
			manager.UserID.String(): "manager",
			member.UserID.String():  "member",
			owner.UserID.String():   "member",
		},
	}

	var envelope projectEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/projects", "Bearer "+owner.Token,
		request, http.StatusCreated, &envelope)

	assert.True(t, envelope.Success)
	assert.Equal(t, "Website", envelope.Data.Name)
	assert.Equal(t, owner.UserID, envelope.Data.CreatorID)
	require.NotNil(t, envelope.Data.UserRole)
	assert.Equal(t, users_enums.ProjectRoleOwner, *envelope.Data.UserRole)

	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{
		owner.UserID:   users_enums.ProjectRoleOwner,
		manager.UserID: users_enums.ProjectRoleManager,
		member.UserID:  users_enums.ProjectRoleMember,
	}, rolesOf(envelope.Data.Members))
}

func Test_CreateProject_WithUnknownMember_ReturnsValidationFailed(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	request := map[string]any{
		"name":    "Website",
		"members": map[string]string{uuid.NewString(): "member"},
	}

	resp := test_utils.MakePostRequest(t, router, "/api/v1/projects", "Bearer "+owner.Token,
		request, http.StatusUnprocessableEntity)
	assert.Contains(t, string(resp.Body), "VALIDATION_FAILED")
}

func Test_CreateProject_WithSecondOwner_ReturnsValidationFailed(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	other := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	request := map[string]any{
		"name":    "Website",
		"members": map[string]string{other.UserID.String(): "owner"},
	}

	test_utils.MakePostRequest(t, router, "/api/v1/projects", "Bearer "+owner.Token,
		request, http.StatusUnprocessableEntity)
}

func Test_CreateProject_WithInvalidJSON_ReturnsBadRequest(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	resp := test_utils.MakePostRequest(t, router, "/api/v1/projects", "Bearer "+owner.Token,
		"invalid json", http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "Invalid request format")
}

func Test_CreateProject_WithoutAuthToken_ReturnsUnauthorized(t *testing.T) {
	router := createProjectTestRouter(t)

	test_utils.MakePostRequest(t, router, "/api/v1/projects", "",
		map[string]any{"name": "Website"}, http.StatusUnauthorized)
}

func Test_GetUserProjects_WhenUserHasProjects_ReturnsOnlyMemberProjects(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	shared := projects_testing.CreateTestProject("Shared", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})
	projects_testing.CreateTestProject("Private", owner, nil)

	var envelope struct {
		Data projects_dto.ListProjectsResponseDTO `json:"data"`
	}
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/projects", "Bearer "+member.Token,
		http.StatusOK, &envelope)

	require.Len(t, envelope.Data.Projects, 1)
	assert.Equal(t, shared.ID, envelope.Data.Projects[0].ID)
	require.NotNil(t, envelope.Data.Projects[0].UserRole)
	assert.Equal(t, users_enums.ProjectRoleMember, *envelope.Data.Projects[0].UserRole)
	assert.Equal(t, int64(0), envelope.Data.Projects[0].TaskCount)

	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/projects", "Bearer "+owner.Token,
		http.StatusOK, &envelope)
	assert.Len(t, envelope.Data.Projects, 2)
}

func Test_GetSingleProject_WhenUserIsProjectMember_ReturnsProject(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Readable", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	var envelope projectEnvelope
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/api/v1/projects/"+project.ID.String(),
		"Bearer "+member.Token, http.StatusOK, &envelope)

	assert.Equal(t, project.ID, envelope.Data.ID)
	assert.Len(t, envelope.Data.Members, 2)
}

func Test_GetSingleProject_WhenUserIsNotProjectMember_ReturnsForbidden(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	admin := users_testing.CreateTestUser(users_enums.UserRoleAdmin)
	project := projects_testing.CreateTestProject("Closed", owner, nil)

	test_utils.MakeGetRequest(t, router, "/api/v1/projects/"+project.ID.String(),
		"Bearer "+outsider.Token, http.StatusForbidden)

	// global admin has no view override
	test_utils.MakeGetRequest(t, router, "/api/v1/projects/"+project.ID.String(),
		"Bearer "+admin.Token, http.StatusForbidden)
}

func Test_GetSingleProject_WhenProjectMissing_ReturnsNotFound(t *testing.T) {
	router := createProjectTestRouter(t)
	user := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	test_utils.MakeGetRequest(t, router, "/api/v1/projects/"+uuid.NewString(),
		"Bearer "+user.Token, http.StatusNotFound)
	test_utils.MakeGetRequest(t, router, "/api/v1/projects/not-a-uuid",
		"Bearer "+user.Token, http.StatusBadRequest)
}

func Test_UpdateProject_WithDifferentRoles_EnforcesPermissions(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Before", owner, projects_dto.MembersInput{
		manager.UserID: users_enums.ProjectRoleManager,
		member.UserID:  users_enums.ProjectRoleMember,
	})
	url := "/api/v1/projects/" + project.ID.String()

	test_utils.MakeRequest(t, router, http.MethodPut, url, "Bearer "+member.Token,
		map[string]any{"name": "By member"}, http.StatusForbidden)

	var envelope projectEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPut, url, "Bearer "+manager.Token,
		map[string]any{"name": "After", "description": "Updated"}, http.StatusOK)
	require.NoError(t, jsonUnmarshal(resp.Body, &envelope))

	assert.Equal(t, "After", envelope.Data.Name)
	require.NotNil(t, envelope.Data.Description)
	assert.Equal(t, "Updated", *envelope.Data.Description)
	// members untouched when not provided
	assert.Len(t, envelope.Data.Members, 3)
}

func Test_UpdateProject_WithEmptyBody_ExistenceAndPermissionCheckedFirst(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Before", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})
	url := "/api/v1/projects/" + project.ID.String()

	test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+uuid.NewString(),
		"Bearer "+owner.Token, map[string]any{}, http.StatusNotFound)
	test_utils.MakeRequest(t, router, http.MethodPut, url,
		"Bearer "+member.Token, map[string]any{}, http.StatusForbidden)
	test_utils.MakeRequest(t, router, http.MethodPut, url,
		"Bearer "+owner.Token, map[string]any{}, http.StatusUnprocessableEntity)
	test_utils.MakeRequest(t, router, http.MethodPut, url,
		"Bearer "+owner.Token, map[string]any{"name": strings.Repeat("n", 256)}, http.StatusUnprocessableEntity)
}

func Test_UpdateProject_WithMembers_ReplacesMembershipAndKeepsCreatorOwner(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	removed := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Team", owner, projects_dto.MembersInput{
		manager.UserID: users_enums.ProjectRoleManager,
		removed.UserID: users_enums.ProjectRoleMember,
	})

	request := map[string]any{
		"name": "Team",
		"members": map[string]string{
			owner.UserID.String():   "member",
			manager.UserID.String(): "member",
		},
	}

	var envelope projectEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPut, "/api/v1/projects/"+project.ID.String(),
		"Bearer "+manager.Token, request, http.StatusOK)
	require.NoError(t, jsonUnmarshal(resp.Body, &envelope))

	assert.Equal(t, map[uuid.UUID]users_enums.ProjectRole{
		owner.UserID:   users_enums.ProjectRoleOwner,
		manager.UserID: users_enums.ProjectRoleMember,
	}, rolesOf(envelope.Data.Members))

	test_utils.MakeGetRequest(t, router, "/api/v1/projects/"+project.ID.String(),
		"Bearer "+removed.Token, http.StatusForbidden)
}

func Test_DeleteProject_WithDifferentRoles_EnforcesOwnerOrGlobalAdmin(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	admin := users_testing.CreateTestUser(users_enums.UserRoleAdmin)

	first := projects_testing.CreateTestProject("First", owner, projects_dto.MembersInput{
		manager.UserID: users_enums.ProjectRoleManager,
	})
	second := projects_testing.CreateTestProject("Second", owner, nil)

	test_utils.MakeRequest(t, router, http.MethodDelete, "/api/v1/projects/"+first.ID.String(),
		"Bearer "+manager.Token, nil, http.StatusForbidden)

	test_utils.MakeRequest(t, router, http.MethodDelete, "/api/v1/projects/"+first.ID.String(),
		"Bearer "+owner.Token, nil, http.StatusOK)
	test_utils.MakeGetRequest(t, router, "/api/v1/projects/"+first.ID.String(),
		"Bearer "+owner.Token, http.StatusNotFound)

	// admin without membership
	test_utils.MakeRequest(t, router, http.MethodDelete, "/api/v1/projects/"+second.ID.String(),
		"Bearer "+admin.Token, nil, http.StatusOK)
	test_utils.MakeRequest(t, router, http.MethodDelete, "/api/v1/projects/"+second.ID.String(),
		"Bearer "+admin.Token, nil, http.StatusNotFound)
}

func Test_GetProjectAuditLogs_WhenUserIsMember_ReturnsProjectEntries(t *testing.T) {
	router := createProjectTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	outsider := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Audited", owner, nil)
	url := fmt.Sprintf("/api/v1/projects/%s/audit-logs?limit=10", project.ID)

	var envelope struct {
		Data audit_logs.GetAuditLogsResponse `json:"data"`
	}
	test_utils.MakeGetRequestAndUnmarshal(t, router, url, "Bearer "+owner.Token, http.StatusOK, &envelope)

	require.NotEmpty(t, envelope.Data.AuditLogs)
	assert.Equal(t, "Project created: Audited", envelope.Data.AuditLogs[0].Message)

	test_utils.MakeGetRequest(t, router, url, "Bearer "+outsider.Token, http.StatusForbidden)
}

func createProjectTestRouter(t *testing.T) *gin.Engine {
	models := append(projects_testing.Models(), &tasks.Task{}, &tasks.TaskAssignee{})
	test_utils.SetupTestDatabase(t, models...)

	return projects_testing.CreateTestRouter(GetProjectController(), GetMembershipController())
}

func rolesOf(members []projects_dto.ProjectMemberResponseDTO) map[uuid.UUID]users_enums.ProjectRole {
	roles := make(map[uuid.UUID]users_enums.ProjectRole, len(members))
	for _, member := range members {
		roles[member.UserID] = member.Role
	}

	return roles
}

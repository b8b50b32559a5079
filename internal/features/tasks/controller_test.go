package tasks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"taskflow/internal/features/notifications"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_testing "taskflow/internal/features/projects/testing"
	users_enums "taskflow/internal/features/users/enums"
	users_testing "taskflow/internal/features/users/testing"
	test_utils "taskflow/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    TaskResponseDTO `json:"data"`
	Error   string          `json:"error"`
}

type taskListEnvelope struct {
	Success bool                 `json:"success"`
	Data    ListTasksResponseDTO `json:"data"`
}

func createTaskTestRouter(t *testing.T) *gin.Engine {
	test_utils.SetupTestDatabase(t, append(projects_testing.Models(),
		&Task{},
		&TaskAssignee{},
		&notifications.Notification{},
	)...)

	return projects_testing.CreateTestRouter(GetTaskController())
}

func Test_CreateTask_ThroughApi_TaskCreatedAndAssigneeInboxFilled(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	request := map[string]any{
		"projectId":     project.ID,
		"title":         "Design review",
		"priority":      "medium",
		"assignedUsers": []uuid.UUID{member.UserID},
	}

	var envelope taskEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		request, http.StatusCreated, &envelope)

	assert.True(t, envelope.Success)
	assert.Equal(t, "Design review", envelope.Data.Title)
	assert.Equal(t, TaskStatusTodo, envelope.Data.Status)
	assert.Equal(t, TaskPriorityMedium, envelope.Data.Priority)
	require.Len(t, envelope.Data.Assignees, 1)
	assert.Equal(t, member.UserID, envelope.Data.Assignees[0].ID)

	inbox, err := notifications.GetNotificationService().GetNotifications(
		users_testing.GetTestUser(member.UserID),
		&notifications.GetNotificationsRequest{},
	)
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, notifications.NotificationKindTaskAssigned, inbox.Notifications[0].Kind)
}

func Test_CreateTask_WhenActorIsMember_ReturnsForbidden(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	resp := test_utils.MakePostRequest(t, router, "/api/v1/tasks", "Bearer "+member.Token,
		map[string]any{"projectId": project.ID, "title": "Nope"}, http.StatusForbidden)
	assert.Contains(t, string(resp.Body), "FORBIDDEN")
}

func Test_CreateTask_WithInvalidJSON_ReturnsBadRequest(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	resp := test_utils.MakePostRequest(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		"not an object", http.StatusBadRequest)
	assert.Contains(t, string(resp.Body), "BAD_REQUEST")
	assert.NotContains(t, string(resp.Body), "VALIDATION_FAILED")
}

func Test_CreateTask_WithoutToken_ReturnsUnauthorized(t *testing.T) {
	router := createTaskTestRouter(t)

	test_utils.MakePostRequest(t, router, "/api/v1/tasks", "",
		map[string]any{"title": "Task"}, http.StatusUnauthorized)
}

func Test_UpdateTaskStatus_ThroughApi_StatusChanged(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	var created taskEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		map[string]any{"projectId": project.ID, "title": "Ship", "assignedUsers": []uuid.UUID{member.UserID}},
		http.StatusCreated, &created)

	var updated taskEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/status", created.Data.ID), "Bearer "+member.Token,
		map[string]any{"status": "done"}, http.StatusOK)
	require.NoError(t, json.Unmarshal(resp.Body, &updated))
	assert.Equal(t, TaskStatusDone, updated.Data.Status)

	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/status", created.Data.ID), "Bearer "+member.Token,
		map[string]any{"status": "archived"}, http.StatusUnprocessableEntity)

	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/priority", created.Data.ID), "Bearer "+member.Token,
		map[string]any{"priority": "high"}, http.StatusOK)
}

func Test_UpdateTaskStatus_WithEmptyBody_ExistenceAndPermissionCheckedFirst(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		member.UserID: users_enums.ProjectRoleMember,
	})

	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/status", uuid.New()), "Bearer "+owner.Token,
		map[string]any{}, http.StatusNotFound)
	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/priority", uuid.New()), "Bearer "+owner.Token,
		map[string]any{}, http.StatusNotFound)

	var created taskEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		map[string]any{"projectId": project.ID, "title": "Unassigned"},
		http.StatusCreated, &created)

	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/status", created.Data.ID), "Bearer "+member.Token,
		map[string]any{}, http.StatusForbidden)
	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/priority", created.Data.ID), "Bearer "+member.Token,
		map[string]any{}, http.StatusForbidden)

	// payload is validated only once the actor is allowed
	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/status", created.Data.ID), "Bearer "+owner.Token,
		map[string]any{}, http.StatusUnprocessableEntity)
}

func Test_UpdateTaskAssignees_ThroughApi_AssigneesReplaced(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	member := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		manager.UserID: users_enums.ProjectRoleManager,
		member.UserID:  users_enums.ProjectRoleMember,
	})

	var created taskEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
		map[string]any{"projectId": project.ID, "title": "Ship", "assignedUsers": []uuid.UUID{member.UserID}},
		http.StatusCreated, &created)

	var updated taskEnvelope
	resp := test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/assignees", created.Data.ID), "Bearer "+manager.Token,
		map[string]any{"assignedUsers": []uuid.UUID{manager.UserID}}, http.StatusOK)
	require.NoError(t, json.Unmarshal(resp.Body, &updated))

	require.Len(t, updated.Data.Assignees, 1)
	assert.Equal(t, manager.UserID, updated.Data.Assignees[0].ID)

	test_utils.MakeRequest(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/tasks/%s/assignees", created.Data.ID), "Bearer "+member.Token,
		map[string]any{"assignedUsers": []uuid.UUID{member.UserID}}, http.StatusForbidden)
}

func Test_DeleteTask_ThroughApi_OnlyOwnerSucceeds(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	manager := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, projects_dto.MembersInput{
		manager.UserID: users_enums.ProjectRoleManager,
	})

	var created taskEnvelope
	test_utils.MakePostRequestAndUnmarshal(t, router, "/api/v1/tasks", "Bearer "+manager.Token,
		map[string]any{"projectId": project.ID, "title": "Temporary"}, http.StatusCreated, &created)

	url := fmt.Sprintf("/api/v1/tasks/%s", created.Data.ID)

	test_utils.MakeRequest(t, router, http.MethodDelete, url, "Bearer "+manager.Token, nil, http.StatusForbidden)
	test_utils.MakeRequest(t, router, http.MethodDelete, url, "Bearer "+owner.Token, nil, http.StatusOK)
	test_utils.MakeGetRequest(t, router, url, "Bearer "+owner.Token, http.StatusNotFound)
}

func Test_GetTask_WithInvalidID_ReturnsBadRequest(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)

	test_utils.MakeGetRequest(t, router, "/api/v1/tasks/not-a-uuid", "Bearer "+owner.Token, http.StatusBadRequest)
}

func Test_GetTasks_WithFilters_ThroughApi(t *testing.T) {
	router := createTaskTestRouter(t)
	owner := users_testing.CreateTestUser(users_enums.UserRoleRegular)
	project := projects_testing.CreateTestProject("Alpha", owner, nil)

	for _, priority := range []string{"low", "high", "high"} {
		test_utils.MakePostRequest(t, router, "/api/v1/tasks", "Bearer "+owner.Token,
			map[string]any{"projectId": project.ID, "title": "Task " + priority, "priority": priority},
			http.StatusCreated)
	}

	var envelope taskListEnvelope
	test_utils.MakeGetRequestAndUnmarshal(t, router,
		fmt.Sprintf("/api/v1/tasks?projectId=%s&priority=high", project.ID),
		"Bearer "+owner.Token, http.StatusOK, &envelope)

	assert.Len(t, envelope.Data.Tasks, 2)

	test_utils.MakeGetRequest(t, router, "/api/v1/tasks?projectId=bad", "Bearer "+owner.Token, http.StatusBadRequest)
	test_utils.MakeGetRequest(t, router, "/api/v1/tasks?status=blocked", "Bearer "+owner.Token,
		http.StatusUnprocessableEntity)
}

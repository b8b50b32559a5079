package tasks

import (
	"taskflow/internal/features/audit_logs"
	users_middleware "taskflow/internal/features/users/middleware"
	users_models "taskflow/internal/features/users/models"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskController struct {
	taskService *TaskService
}

func (c *TaskController) RegisterRoutes(router *gin.RouterGroup) {
	taskRoutes := router.Group("/tasks")

	taskRoutes.GET("", c.GetTasks)
	taskRoutes.POST("", c.CreateTask)
	taskRoutes.GET("/:id", c.GetTask)
	taskRoutes.PUT("/:id", c.UpdateTask)
	taskRoutes.DELETE("/:id", c.DeleteTask)
	taskRoutes.PATCH("/:id/status", c.UpdateTaskStatus)
	taskRoutes.PATCH("/:id/priority", c.UpdateTaskPriority)
	taskRoutes.PATCH("/:id/assignees", c.UpdateTaskAssignees)
	taskRoutes.GET("/:id/audit-logs", c.GetTaskAuditLogs)
}

// GetTasks
// @Summary List tasks of the caller's projects
// @Tags tasks
// @Param projectId query string false "Project ID"
// @Param status query string false "todo, in_progress or done"
// @Param priority query string false "low, medium or high"
// @Success 200 {object} ListTasksResponseDTO
// @Router /tasks [get]
func (c *TaskController) GetTasks(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	request := &GetTasksRequest{}

	if value := ctx.Query("projectId"); value != "" {
		projectID, err := uuid.Parse(value)
		if err != nil {
			response.BadRequest(ctx, "Invalid project ID")
			return
		}
		request.ProjectID = &projectID
	}

	if value := ctx.Query("status"); value != "" {
		status := TaskStatus(value)
		request.Status = &status
	}

	if value := ctx.Query("priority"); value != "" {
		priority := TaskPriority(value)
		request.Priority = &priority
	}

	tasks, err := c.taskService.GetTasks(request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Tasks retrieved successfully", tasks)
}

// CreateTask
// @Summary Create a task in a project
// @Description Owner or manager only; assignees are notified
// @Tags tasks
// @Param request body CreateTaskRequestDTO true "Task data"
// @Success 201 {object} TaskResponseDTO
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	var request CreateTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	task, err := c.taskService.CreateTask(&request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.Created(ctx, "Task created successfully", task)
}

// GetTask
// @Summary Get task with assignees and comments
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 200 {object} TaskResponseDTO
// @Router /tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	task, err := c.taskService.GetTask(taskID, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task retrieved successfully", task)
}

// UpdateTask
// @Summary Update task fields
// @Tags tasks
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequestDTO true "Fields to change"
// @Success 200 {object} TaskResponseDTO
// @Router /tasks/{id} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	var request UpdateTaskRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	task, err := c.taskService.UpdateTask(taskID, &request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task updated successfully", task)
}

// DeleteTask
// @Summary Delete task
// @Description Project owner only
// @Tags tasks
// @Param id path string true "Task ID"
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	if err := c.taskService.DeleteTask(taskID, user); err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task deleted successfully", nil)
}

// UpdateTaskStatus
// @Summary Change task status
// @Tags tasks
// @Param id path string true "Task ID"
// @Param request body UpdateTaskStatusRequestDTO true "New status"
// @Success 200 {object} TaskResponseDTO
// @Router /tasks/{id}/status [patch]
func (c *TaskController) UpdateTaskStatus(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	var request UpdateTaskStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	task, err := c.taskService.UpdateTaskStatus(taskID, request.Status, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task status updated successfully", task)
}

// UpdateTaskPriority
// @Summary Change task priority
// @Tags tasks
// @Param id path string true "Task ID"
// @Param request body UpdateTaskPriorityRequestDTO true "New priority"
// @Success 200 {object} TaskResponseDTO
// @Router /tasks/{id}/priority [patch]
func (c *TaskController) UpdateTaskPriority(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	var request UpdateTaskPriorityRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	task, err := c.taskService.UpdateTaskPriority(taskID, request.Priority, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task priority updated successfully", task)
}

// UpdateTaskAssignees
// @Summary Replace task assignees
// @Description Owner or manager only; newly added users are notified
// @Tags tasks
// @Param id path string true "Task ID"
// @Param request body UpdateTaskAssigneesRequestDTO true "Complete assignee list"
// @Success 200 {object} TaskResponseDTO
// @Router /tasks/{id}/assignees [patch]
func (c *TaskController) UpdateTaskAssignees(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	var request UpdateTaskAssigneesRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	task, err := c.taskService.ReplaceTaskAssignees(taskID, &request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Task assignees updated successfully", task)
}

// userAndTaskID writes the error response itself when it returns false.
// GetTaskAuditLogs
// @Summary Get task history
// @Tags tasks
// @Param id path string true "Task ID"
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Router /tasks/{id}/audit-logs [get]
func (c *TaskController) GetTaskAuditLogs(ctx *gin.Context) {
	user, taskID, ok := c.userAndTaskID(ctx)
	if !ok {
		return
	}

	request := &audit_logs.GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		response.BadRequest(ctx, "Invalid query parameters")
		return
	}

	logs, err := c.taskService.GetTaskAuditLogs(taskID, user, request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Audit logs retrieved successfully", logs)
}

func (c *TaskController) userAndTaskID(ctx *gin.Context) (*users_models.User, uuid.UUID, bool) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid task ID")
		return nil, uuid.Nil, false
	}

	return user, taskID, true
}

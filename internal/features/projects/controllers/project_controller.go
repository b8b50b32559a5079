package projects_controllers

import (
	audit_logs "taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_services "taskflow/internal/features/projects/services"
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectController struct {
	projectService *projects_services.ProjectService
}

func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projectRoutes := router.Group("/projects")

	projectRoutes.POST("", c.CreateProject)
	projectRoutes.GET("", c.GetProjects)
	projectRoutes.GET("/:id", c.GetProject)
	projectRoutes.PUT("/:id", c.UpdateProject)
	projectRoutes.DELETE("/:id", c.DeleteProject)
	projectRoutes.GET("/:id/audit-logs", c.GetProjectAuditLogs)
}

// CreateProject
// @Summary Create a new project
// @Description Create a project; the caller becomes its owner and the members map is applied
// @Tags projects
// @Param request body projects_dto.CreateProjectRequestDTO true "Project creation data"
// @Success 201 {object} projects_dto.ProjectDetailsResponseDTO
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	var request projects_dto.CreateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	project, err := c.projectService.CreateProject(&request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.Created(ctx, "Project created successfully", project)
}

// GetProjects
// @Summary List user's projects
// @Tags projects
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Router /projects [get]
func (c *ProjectController) GetProjects(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	projects, err := c.projectService.GetUserProjects(user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Projects retrieved successfully", projects)
}

// GetProject
// @Summary Get project with members
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200 {object} projects_dto.ProjectDetailsResponseDTO
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid project ID")
		return
	}

	project, err := c.projectService.GetProject(projectID, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Project retrieved successfully", project)
}

// UpdateProject
// @Summary Update project name, description and optionally members
// @Tags projects
// @Param id path string true "Project ID"
// @Param request body projects_dto.UpdateProjectRequestDTO true "Project data"
// @Success 200 {object} projects_dto.ProjectDetailsResponseDTO
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid project ID")
		return
	}

	var request projects_dto.UpdateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	project, err := c.projectService.UpdateProject(projectID, &request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Project updated successfully", project)
}

// DeleteProject
// @Summary Delete project
// @Description Owner or global admin only; removes tasks, comments and memberships
// @Tags projects
// @Param id path string true "Project ID"
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid project ID")
		return
	}

	if err := c.projectService.DeleteProject(projectID, user); err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Project deleted successfully", nil)
}

// GetProjectAuditLogs
// @Summary Get project audit logs
// @Tags projects
// @Param id path string true "Project ID"
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Router /projects/{id}/audit-logs [get]
func (c *ProjectController) GetProjectAuditLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid project ID")
		return
	}

	request := &audit_logs.GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		response.BadRequest(ctx, "Invalid query parameters")
		return
	}

	logs, err := c.projectService.GetProjectAuditLogs(projectID, user, request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Audit logs retrieved successfully", logs)
}

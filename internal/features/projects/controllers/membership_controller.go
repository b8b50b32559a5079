package projects_controllers

import (
	projects_dto "taskflow/internal/features/projects/dto"
	projects_services "taskflow/internal/features/projects/services"
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MembershipController struct {
	membershipService *projects_services.MembershipService
}

func (c *MembershipController) RegisterRoutes(router *gin.RouterGroup) {
	projectRoutes := router.Group("/projects")

	projectRoutes.GET("/:id/members", c.GetMembers)
	projectRoutes.PUT("/:id/members", c.SyncMembers)
}

// GetMembers
// @Summary List project members with their roles
// @Tags project-members
// @Param id path string true "Project ID"
// @Success 200 {object} projects_dto.GetMembersResponseDTO
// @Router /projects/{id}/members [get]
func (c *MembershipController) GetMembers(ctx *gin.Context) {
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

	members, err := c.membershipService.GetMembers(projectID, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Members retrieved successfully", members)
}

// SyncMembers
// @Summary Replace project membership
// @Description Body is a map of user id to role; users left out lose access. The creator stays owner.
// @Tags project-members
// @Param id path string true "Project ID"
// @Success 200 {object} projects_dto.GetMembersResponseDTO
// @Router /projects/{id}/members [put]
func (c *MembershipController) SyncMembers(ctx *gin.Context) {
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

	var request projects_dto.MembersInput
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	members, err := c.membershipService.SyncMembers(projectID, request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Members updated successfully", members)
}

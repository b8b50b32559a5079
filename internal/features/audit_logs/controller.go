package audit_logs

import (
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditLogController struct {
	auditLogService *AuditLogService
}

func (c *AuditLogController) RegisterRoutes(router *gin.RouterGroup) {
	// All audit log endpoints require authentication (handled in main.go)
	auditRoutes := router.Group("/audit-logs")

	auditRoutes.GET("/global", c.GetGlobalAuditLogs)
	auditRoutes.GET("/users/:userId", c.GetUserAuditLogs)
}

// GetGlobalAuditLogs
// @Summary Get global audit logs (ADMIN only)
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param beforeDate query string false "Filter logs created before this date (RFC3339 format)"
// @Router /audit-logs/global [get]
func (c *AuditLogController) GetGlobalAuditLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		response.BadRequest(ctx, "Invalid query parameters")
		return
	}

	logs, err := c.auditLogService.GetGlobalAuditLogs(user, request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Audit logs retrieved successfully", logs)
}

// GetUserAuditLogs
// @Summary Get user audit logs
// @Param userId path string true "User ID"
// @Router /audit-logs/users/{userId} [get]
func (c *AuditLogController) GetUserAuditLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	targetUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid user ID")
		return
	}

	request := &GetAuditLogsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		response.BadRequest(ctx, "Invalid query parameters")
		return
	}

	logs, err := c.auditLogService.GetUserAuditLogs(targetUserID, user, request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Audit logs retrieved successfully", logs)
}

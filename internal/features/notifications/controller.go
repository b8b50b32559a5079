package notifications

import (
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationController struct {
	notificationService *NotificationService
	hub                 *Hub
}

func (c *NotificationController) RegisterRoutes(router *gin.RouterGroup) {
	notificationRoutes := router.Group("/notifications")

	notificationRoutes.GET("", c.GetNotifications)
	notificationRoutes.PATCH("/read-all", c.MarkAllAsRead)
	notificationRoutes.PATCH("/:id/read", c.MarkAsRead)
}

// RegisterRealtimeRoutes exposes the websocket endpoint. Kept apart so it can
// be left out when realtime push is disabled.
func (c *NotificationController) RegisterRealtimeRoutes(router *gin.RouterGroup) {
	router.GET("/notifications/ws", c.Subscribe)
}

// GetNotifications
// @Summary List the caller's notifications, newest first, with the unread count
// @Tags notifications
// @Param limit query int false "Limit number of results" default(100)
// @Param offset query int false "Offset for pagination" default(0)
// @Param unreadOnly query bool false "Only unread notifications"
// @Success 200 {object} GetNotificationsResponse
// @Router /notifications [get]
func (c *NotificationController) GetNotifications(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	request := &GetNotificationsRequest{}
	if err := ctx.ShouldBindQuery(request); err != nil {
		response.BadRequest(ctx, "Invalid query parameters")
		return
	}

	notifications, err := c.notificationService.GetNotifications(user, request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Notifications retrieved successfully", notifications)
}

// MarkAsRead
// @Summary Mark notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	notificationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid notification ID")
		return
	}

	if err := c.notificationService.MarkAsRead(notificationID, user); err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Notification marked as read", nil)
}

// MarkAllAsRead
// @Summary Mark all notifications as read
// @Tags notifications
// @Router /notifications/read-all [patch]
func (c *NotificationController) MarkAllAsRead(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	result, err := c.notificationService.MarkAllAsRead(user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "All notifications marked as read", result)
}

// Subscribe
// @Summary Realtime notification stream over websocket
// @Description Pass the JWT as the token query parameter when headers cannot be set
// @Tags notifications
// @Router /notifications/ws [get]
func (c *NotificationController) Subscribe(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	c.hub.Serve(ctx, user.ID)
}

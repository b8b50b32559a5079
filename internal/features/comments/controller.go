package comments

import (
	users_middleware "taskflow/internal/features/users/middleware"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentController struct {
	commentService *CommentService
}

func (c *CommentController) RegisterRoutes(router *gin.RouterGroup) {
	commentRoutes := router.Group("/comments")

	commentRoutes.GET("", c.GetComments)
	commentRoutes.POST("", c.CreateComment)
	commentRoutes.DELETE("/:id", c.DeleteComment)
}

// GetComments
// @Summary List comments of a task, newest first
// @Tags comments
// @Param taskId query string true "Task ID"
// @Success 200 {object} ListCommentsResponseDTO
// @Router /comments [get]
func (c *CommentController) GetComments(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	taskID, err := uuid.Parse(ctx.Query("taskId"))
	if err != nil {
		response.BadRequest(ctx, "Invalid task ID")
		return
	}

	comments, err := c.commentService.GetComments(taskID, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Comments retrieved successfully", comments)
}

// CreateComment
// @Summary Comment on a task
// @Tags comments
// @Param request body CreateCommentRequestDTO true "Comment data"
// @Success 201 {object} CommentResponseDTO
// @Router /comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	var request CreateCommentRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	comment, err := c.commentService.CreateComment(&request, user)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.Created(ctx, "Comment created successfully", comment)
}

// DeleteComment
// @Summary Delete comment
// @Description Comment author or project owner
// @Tags comments
// @Param id path string true "Comment ID"
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	commentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid comment ID")
		return
	}

	if err := c.commentService.DeleteComment(commentID, user); err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Comment deleted successfully", nil)
}

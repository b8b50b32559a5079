package response

import (
	"errors"
	"net/http"

	"taskflow/internal/util/logger"
	"taskflow/internal/util/service_errors"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Error   service_errors.Kind `json:"error,omitempty"`
}

func OK(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func BadRequest(ctx *gin.Context, message string) {
	ctx.JSON(service_errors.HTTPStatus(service_errors.KindBadRequest), Envelope{
		Success: false,
		Message: message,
		Error:   service_errors.KindBadRequest,
	})
}

func Unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "User not authenticated"})
}

// Fail translates a service error to its transport status. Internal errors
// are logged and their text is not leaked to the caller.
func Fail(ctx *gin.Context, err error) {
	kind := service_errors.KindOf(err)

	if kind == service_errors.KindInternal {
		logger.GetLogger().Error("request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err)

		ctx.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal server error",
			Error:   kind,
		})
		return
	}

	var serviceErr *service_errors.ServiceError
	message := err.Error()
	if errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}

	ctx.JSON(service_errors.HTTPStatus(kind), Envelope{
		Success: false,
		Message: message,
		Error:   kind,
	})
}

package system_healthcheck

import (
	"net/http"

	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

type HealthcheckResponse struct {
	Status string `json:"status"`
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/health", c.CheckHealth)
}

// CheckHealth
// @Summary Check database and cache availability
// @Tags system
// @Success 200 {object} HealthcheckResponse
// @Failure 503 {object} HealthcheckResponse
// @Router /system/health [get]
func (c *HealthcheckController) CheckHealth(ctx *gin.Context) {
	if err := c.healthcheckService.IsHealthy(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: err.Error(),
			Data:    HealthcheckResponse{Status: "unavailable"},
		})
		return
	}

	response.OK(ctx, "Service is healthy", HealthcheckResponse{Status: "ok"})
}

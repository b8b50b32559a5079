package system_healthcheck

import (
	"errors"
	"net/http"
	"testing"

	test_utils "taskflow/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func createHealthcheckRouter(service *HealthcheckService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := &HealthcheckController{service}
	controller.RegisterRoutes(router.Group("/api/v1"))

	return router
}

func Test_CheckHealth_WhenDependenciesAnswer_ReturnsOk(t *testing.T) {
	router := createHealthcheckRouter(&HealthcheckService{
		checkDatabase: func() error { return nil },
		checkCache:    func() error { return nil },
	})

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/system/health", "", http.StatusOK)
	assert.Contains(t, string(resp.Body), `"status":"ok"`)
}

func Test_CheckHealth_WhenDatabaseDown_ReturnsServiceUnavailable(t *testing.T) {
	router := createHealthcheckRouter(&HealthcheckService{
		checkDatabase: func() error { return errors.New("connection refused") },
		checkCache:    func() error { return nil },
	})

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/system/health", "", http.StatusServiceUnavailable)
	assert.Contains(t, string(resp.Body), "database check failed")
}

func Test_CheckHealth_WhenCacheCheckPanics_ReturnsServiceUnavailable(t *testing.T) {
	router := createHealthcheckRouter(&HealthcheckService{
		checkDatabase: func() error { return nil },
		checkCache:    func() error { panic("valkey unreachable") },
	})

	resp := test_utils.MakeGetRequest(t, router, "/api/v1/system/health", "", http.StatusServiceUnavailable)
	assert.Contains(t, string(resp.Body), "cache check failed")
}

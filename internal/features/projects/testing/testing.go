package projects_testing

import (
	"taskflow/internal/features/audit_logs"
	projects_dto "taskflow/internal/features/projects/dto"
	projects_models "taskflow/internal/features/projects/models"
	projects_services "taskflow/internal/features/projects/services"
	users_dto "taskflow/internal/features/users/dto"
	users_middleware "taskflow/internal/features/users/middleware"
	users_services "taskflow/internal/features/users/services"
	users_testing "taskflow/internal/features/users/testing"

	"github.com/gin-gonic/gin"
)

// Models lists the tables the projects feature needs in a test database,
// including the users and audit log tables it joins against.
func Models() []any {
	return append(users_testing.Models(),
		&audit_logs.AuditLog{},
		&projects_models.Project{},
		&projects_models.ProjectMembership{},
	)
}

func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(users_middleware.AuthMiddleware(users_services.GetUserService()))

	for _, controller := range controllers {
		controller.RegisterRoutes(protected)
	}

	audit_logs.SetupDependencies()

	return router
}

// CreateTestProject creates a project owned by owner with the given extra
// members and panics on failure.
func CreateTestProject(
	name string,
	owner *users_dto.SignInResponseDTO,
	members projects_dto.MembersInput,
) *projects_dto.ProjectDetailsResponseDTO {
	project, err := projects_services.GetProjectService().CreateProject(
		&projects_dto.CreateProjectRequestDTO{Name: name, Members: members},
		users_testing.GetTestUser(owner.UserID),
	)
	if err != nil {
		panic(err)
	}

	return project
}

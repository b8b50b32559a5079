package users_testing

import (
	"fmt"
	"strings"
	"time"

	users_dto "taskflow/internal/features/users/dto"
	users_enums "taskflow/internal/features/users/enums"
	users_models "taskflow/internal/features/users/models"
	users_repositories "taskflow/internal/features/users/repositories"
	users_services "taskflow/internal/features/users/services"

	"github.com/google/uuid"
)

// Models lists the tables the users feature needs in a test database.
func Models() []any {
	return []any{&users_models.User{}, &users_models.SecretKey{}}
}

func CreateTestUser(role users_enums.UserRole) *users_dto.SignInResponseDTO {
	userID := uuid.New()
	email := fmt.Sprintf("%s-%s@test.com", strings.ToLower(string(role)), userID.String()[:8])

	hashedPassword := "$2a$10$test"
	user := &users_models.User{
		ID:                   userID,
		Name:                 "User " + userID.String()[:8],
		Email:                email,
		HashedPassword:       &hashedPassword,
		PasswordCreationTime: time.Now().UTC(),
		CreatedAt:            time.Now().UTC(),
		Role:                 role,
	}

	userRepository := &users_repositories.UserRepository{}
	err := userRepository.CreateUser(user)
	if err != nil {
		panic(err)
	}

	response, err := users_services.GetUserService().GenerateAccessToken(user)
	if err != nil {
		panic(err)
	}

	return response
}

func GetTestUser(userID uuid.UUID) *users_models.User {
	user, err := users_services.GetUserService().GetUserByID(userID)
	if err != nil || user == nil {
		panic(fmt.Sprintf("test user %s not found", userID))
	}

	return user
}

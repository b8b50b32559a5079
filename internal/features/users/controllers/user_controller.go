package users_controllers

import (
	"net/http"

	users_dto "taskflow/internal/features/users/dto"
	users_middleware "taskflow/internal/features/users/middleware"
	users_services "taskflow/internal/features/users/services"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type UserController struct {
	userService   *users_services.UserService
	signinLimiter *rate.Limiter
}

func (c *UserController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users/signup", c.SignUp)
	router.POST("/users/signin", c.SignIn)

	// Admin password setup (no auth required)
	router.GET("/users/admin/has-password", c.IsAdminHasPassword)
	router.POST("/users/admin/set-password", c.SetAdminPassword)
}

func (c *UserController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/users/me", c.GetCurrentUser)
}

func (c *UserController) SetSignInLimiter(limiter *rate.Limiter) {
	c.signinLimiter = limiter
}

// SignUp
// @Summary Register a new user
// @Router /users/signup [post]
func (c *UserController) SignUp(ctx *gin.Context) {
	var request users_dto.SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	user, err := c.userService.SignUp(&request)
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.Created(ctx, "User created successfully", c.userService.GetCurrentUserProfile(user))
}

// SignIn
// @Summary Authenticate a user
// @Router /users/signin [post]
func (c *UserController) SignIn(ctx *gin.Context) {
	// We use rate limiter to prevent brute force attacks
	if !c.signinLimiter.Allow() {
		ctx.JSON(http.StatusTooManyRequests, response.Envelope{
			Success: false,
			Message: "Rate limit exceeded. Please try again later.",
		})
		return
	}

	var request users_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	signInResponse, err := c.userService.SignIn(&request)
	if err != nil {
		if users_services.IsInvalidCredentials(err) {
			ctx.JSON(http.StatusUnauthorized, response.Envelope{Success: false, Message: err.Error()})
			return
		}

		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Signed in successfully", signInResponse)
}

func (c *UserController) IsAdminHasPassword(ctx *gin.Context) {
	hasPassword, err := c.userService.IsRootAdminHasPassword()
	if err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Admin password status retrieved", users_dto.IsAdminHasPasswordResponseDTO{
		HasPassword: hasPassword,
	})
}

func (c *UserController) SetAdminPassword(ctx *gin.Context) {
	var request users_dto.SetAdminPasswordRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		response.BadRequest(ctx, "Invalid request format")
		return
	}

	if err := c.userService.SetRootAdminPassword(request.Password); err != nil {
		response.Fail(ctx, err)
		return
	}

	response.OK(ctx, "Admin password set successfully", nil)
}

// GetCurrentUser
// @Summary Get current user profile
// @Router /users/me [get]
func (c *UserController) GetCurrentUser(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		response.Unauthorized(ctx)
		return
	}

	response.OK(ctx, "User retrieved successfully", c.userService.GetCurrentUserProfile(user))
}

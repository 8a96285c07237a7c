package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"usersvc/internal/users/application"
	"usersvc/pkg/errors"
	"usersvc/pkg/middleware"
	"usersvc/pkg/validation"
)

// HTTPHandler handles HTTP requests for users
type HTTPHandler struct {
	useCase *application.UserUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.UserUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the user routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100" example:"John Doe"`
	Email string `json:"email" binding:"required,email,max=255" example:"john@example.com"`
	Age   int    `json:"age" binding:"required,min=1" example:"25"`
}

// UpdateUserRequest is the request body for updating a user.
// All fields are optional; absent fields are left untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100" example:"John Doe"`
	Email *string `json:"email,omitempty" binding:"omitempty,email,max=255" example:"john@example.com"`
	Age   *int    `json:"age,omitempty" example:"25"`
}

// UserResponse is the response body for user operations
type UserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Name      string `json:"name" example:"John Doe"`
	Email     string `json:"email" example:"john@example.com"`
	Age       int    `json:"age" example:"25"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// SuccessResponse is the standard success envelope
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	TraceID string      `json:"trace_id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// CreateUser creates a new user
// @Summary Create a new user
// @Description Create a new user with name, email and age
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User creation request"
// @Success 201 {object} SuccessResponse{data=UserResponse} "User created successfully"
// @Failure 400 {object} errors.ErrorResponse "Validation error"
// @Failure 409 {object} errors.ErrorResponse "Email already exists"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/v1/users [post]
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", validation.ToDetails(err)))
		return
	}

	user, err := h.useCase.CreateUser(c.Request.Context(), application.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Data: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Age:       user.Age,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
		TraceID: c.GetString(middleware.TraceIDKey),
	})
}

// GetUser retrieves a user by ID
// @Summary Get a user by ID
// @Description Retrieve user details by their ID
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} SuccessResponse{data=UserResponse} "User retrieved successfully"
// @Failure 400 {object} errors.ErrorResponse "Invalid user ID"
// @Failure 404 {object} errors.ErrorResponse "User not found"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/v1/users/{id} [get]
func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.useCase.GetUser(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Age:       user.Age,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
		TraceID: c.GetString(middleware.TraceIDKey),
	})
}

// ListUsers returns all users
// @Summary List all users
// @Description Retrieve all users in the store's natural order
// @Tags users
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]UserResponse} "Users retrieved successfully"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/v1/users [get]
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	users, err := h.useCase.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Age:       user.Age,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data:    responses,
		TraceID: c.GetString(middleware.TraceIDKey),
	})
}

// UpdateUser applies a partial update to a user
// @Summary Update a user
// @Description Update a user's name, email and/or age; omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "User update request"
// @Success 200 {object} SuccessResponse{data=UserResponse} "User updated successfully"
// @Failure 400 {object} errors.ErrorResponse "Validation error or empty update"
// @Failure 404 {object} errors.ErrorResponse "User not found"
// @Failure 409 {object} errors.ErrorResponse "Email already exists"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/v1/users/{id} [put]
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", validation.ToDetails(err)))
		return
	}

	user, err := h.useCase.UpdateUser(c.Request.Context(), id, application.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Data: UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Age:       user.Age,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
		TraceID: c.GetString(middleware.TraceIDKey),
	})
}

// DeleteUser deletes a user by ID
// @Summary Delete a user
// @Description Delete a user by their ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 204 "User deleted successfully"
// @Failure 400 {object} errors.ErrorResponse "Invalid user ID"
// @Failure 404 {object} errors.ErrorResponse "User not found"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/v1/users/{id} [delete]
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteUser(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid user id", nil))
		return 0, false
	}
	return uint(id), true
}

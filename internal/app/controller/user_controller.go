package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/app/repository"
	"github.com/ratewise/ratewise-backend/internal/app/service"
	apperrors "github.com/ratewise/ratewise-backend/internal/errors"
	"github.com/ratewise/ratewise-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type CreateUserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Address  string         `json:"address"`
	Role     model.UserRole `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string         `json:"name"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Password *string         `json:"password"`
	Address  *string         `json:"address"`
	Role     *model.UserRole `json:"role"`
}

// List returns user accounts with filtering, sorting and pagination
// GET /api/users
func (ctrl *UserController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, limit, sortBy, sortOrder := parsePagination(c)

	users, total, err := ctrl.userService.ListUsers(repository.UserFilter{
		Search:    c.Query("search"),
		Role:      model.UserRole(c.Query("role")),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		log.Error("Failed to list users", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Get returns one user account including owned stores
// GET /api/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// Create provisions an account with any role
// POST /api/users
func (ctrl *UserController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid user creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user details")
		return
	}

	user, err := ctrl.userService.CreateUser(req.Name, req.Email, req.Password, req.Address, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already in use")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "Role must be admin, user or store_owner")
		case errors.Is(err, service.ErrNameLength):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name must be between 20 and 60 characters")
		case errors.Is(err, service.ErrAddressTooLong):
			apperrors.BadRequest(c, apperrors.ValidationTooLong, "Address must be at most 400 characters")
		case isPasswordPolicyError(err):
			apperrors.BadRequest(c, apperrors.AuthWeakPassword, err.Error())
		default:
			log.Error("Failed to create user", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create user")
		}
		return
	}

	log.Info("User account created", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userResponse(user),
	})
}

// Update modifies a user account, including role changes
// PUT /api/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid user update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user details")
		return
	}

	user, err := ctrl.userService.UpdateUser(userID, service.UserMutation{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrLastAdmin):
			apperrors.Conflict(c, apperrors.UserLastAdmin, "Cannot remove the last admin account")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already in use")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "Role must be admin, user or store_owner")
		case errors.Is(err, service.ErrNameLength):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name must be between 20 and 60 characters")
		case errors.Is(err, service.ErrAddressTooLong):
			apperrors.BadRequest(c, apperrors.ValidationTooLong, "Address must be at most 400 characters")
		case isPasswordPolicyError(err):
			apperrors.BadRequest(c, apperrors.AuthWeakPassword, err.Error())
		default:
			log.Error("Failed to update user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    userResponse(user),
	})
}

// Delete removes a user account. The last admin is protected; ratings
// owned by the account go with it through the cascade.
// DELETE /api/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrLastAdmin):
			apperrors.Conflict(c, apperrors.UserLastAdmin, "Cannot remove the last admin account")
		default:
			log.Error("Failed to delete user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete user")
		}
		return
	}

	log.Info("User account deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// Stats returns the admin dashboard totals
// GET /api/users/dashboard/stats
func (ctrl *UserController) Stats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.userService.Stats()
	if err != nil {
		log.Error("Failed to compute dashboard stats", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "dashboard stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

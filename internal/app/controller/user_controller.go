package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
	pages       Pagination
}

func NewUserController(userService service.UserService, pages Pagination) *UserController {
	return &UserController{
		userService: userService,
		pages:       pages,
	}
}

type UpdateUserRequest struct {
	Username *string         `json:"username" binding:"omitempty,min=3,max=125"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Role     *model.UserRole `json:"role"`
}

func (r UpdateUserRequest) patch() service.UserPatch {
	return service.UserPatch{Username: r.Username, Email: r.Email, Role: r.Role}
}

// List returns users page by page. Staff only.
// GET /api/v1/users/
func (ctrl *UserController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	users, err := ctrl.userService.List(skip, limit)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetMe returns the caller
// GET /api/v1/users/me
func (ctrl *UserController) GetMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe patches the caller
// PATCH /api/v1/users/me
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	ctrl.update(c, user, user.ID)
}

// Get returns one user to its owner or to staff
// GET /api/v1/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	id, _, ok := ctrl.authorizeTarget(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetByID(id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update patches one user for its owner or for staff
// PATCH /api/v1/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	id, actor, ok := ctrl.authorizeTarget(c)
	if !ok {
		return
	}
	ctrl.update(c, actor, id)
}

// Delete removes one user for its owner or for staff
// DELETE /api/v1/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, actor, ok := ctrl.authorizeTarget(c)
	if !ok {
		return
	}

	if err := ctrl.userService.Delete(id); err != nil {
		ctrl.respondError(c, err)
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actor.ID,
	})
	c.JSON(http.StatusOK, deletedInfo("User", id))
}

func (ctrl *UserController) update(c *gin.Context, actor *model.User, id uuid.UUID) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	user, err := ctrl.userService.Update(actor, id, req.patch())
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// authorizeTarget parses :id and checks the caller is staff or the owner.
func (ctrl *UserController) authorizeTarget(c *gin.Context) (uuid.UUID, *model.User, bool) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return uuid.Nil, nil, false
	}
	id, ok := pathID(c)
	if !ok {
		return uuid.Nil, nil, false
	}
	if err := model.RequireStaffOrOwner(actor, id); err != nil {
		middleware.GetLoggerFromContext(c).Warn("User access denied", map[string]interface{}{
			"actor_id":  actor.ID,
			"target_id": id,
		})
		apperrors.Forbidden(c, "")
		return uuid.Nil, nil, false
	}
	return id, actor, true
}

func (ctrl *UserController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found.")
	case errors.Is(err, service.ErrUsernameExists):
		apperrors.Conflict(c, apperrors.AuthUsernameExists, "User with this username exists.")
	case errors.Is(err, service.ErrEmailExists):
		apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "User with this email exists.")
	case errors.Is(err, model.ErrForbidden):
		apperrors.Forbidden(c, "Only an admin can change roles")
	case errors.Is(err, service.ErrInvalidRole):
		apperrors.RespondWithValidationError(c, map[string]string{"role": "must be one of user, moderator, admin"})
	default:
		middleware.GetLoggerFromContext(c).Error("User operation failed", err, nil)
		apperrors.ParseAndRespond(c, err, "update user")
	}
}

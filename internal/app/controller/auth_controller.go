package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=125"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest is accepted as a form on /token and as JSON on /auth.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword   string `json:"new_password" binding:"required,min=6,max=72"`
	ReNewPassword string `json:"re_new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword   string `json:"old_password" binding:"required"`
	NewPassword   string `json:"new_password" binding:"required,min=6,max=72"`
	ReNewPassword string `json:"re_new_password" binding:"required"`
}

// Register handles user registration
// POST /api/v1/users/
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindError(c, err)
		return
	}

	user, err := ctrl.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "User with this username exists.")
		case errors.Is(err, service.ErrEmailExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "User with this email exists.")
		case errors.Is(err, util.ErrPasswordTooLong):
			apperrors.RespondWithValidationError(c, map[string]string{"password": "must be at most 72 bytes"})
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"username": req.Username,
			})
			apperrors.ParseAndRespond(c, err, "register user")
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Token exchanges form credentials for an access token
// POST /api/v1/authorization/token
func (ctrl *AuthController) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}
	ctrl.login(c, req)
}

// Auth exchanges JSON credentials for an access token
// POST /api/v1/authorization/auth
func (ctrl *AuthController) Auth(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}
	ctrl.login(c, req)
}

func (ctrl *AuthController) login(c *gin.Context, req LoginRequest) {
	log := middleware.GetLoggerFromContext(c)

	token, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect username or password")
			return
		case errors.Is(err, service.ErrResetPending):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthResetPending, "Password reset in progress, finish it or wait for it to expire")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, err, "log in")
		return
	}

	c.JSON(http.StatusOK, token)
}

// ForgetPassword mails a reset link
// POST /api/v1/users/forget-password
func (ctrl *AuthController) ForgetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	if err := ctrl.passwordResetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User with this email not found.")
		case errors.Is(err, service.ErrMailDelivery):
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Failed to send email, try again later")
		default:
			log.Error("Password reset request failed", err, nil)
			apperrors.ParseAndRespond(c, err, "request password reset")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"info": "Email with the reset link has been sent."})
}

// ExchangeResetCode trades the emailed code for a reset session token
// GET /api/v1/users/reset-password/:reset_code
func (ctrl *AuthController) ExchangeResetCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, err := ctrl.passwordResetService.ExchangeCode(c.Request.Context(), c.Param("reset_code"))
	if err != nil {
		if errors.Is(err, service.ErrResetCodeNotFound) {
			apperrors.NotFound(c, apperrors.AuthResetCodeInvalid, "Reset code not found.")
			return
		}
		log.Error("Reset code exchange failed", err, nil)
		apperrors.ParseAndRespond(c, err, "exchange reset code")
		return
	}

	c.JSON(http.StatusOK, token)
}

// ResetPassword sets a new password for the holder of a reset session
// PATCH /api/v1/users/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	if err := ctrl.passwordResetService.CompleteReset(user, req.NewPassword, req.ReNewPassword); err != nil {
		ctrl.respondPasswordError(c, err)
		return
	}

	log.Info("Password reset via reset session", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"info": "Password has been changed."})
}

// ChangePassword changes the password of the authenticated user
// PATCH /api/v1/users/change-password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	if err := ctrl.passwordResetService.ChangePassword(user, req.OldPassword, req.NewPassword, req.ReNewPassword); err != nil {
		ctrl.respondPasswordError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"info": "Password has been changed."})
}

func (ctrl *AuthController) respondPasswordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		apperrors.BadRequest(c, apperrors.AuthPasswordMismatch, "re_new_password must be equal to new_password")
	case errors.Is(err, service.ErrWrongPassword):
		apperrors.BadRequest(c, apperrors.AuthWrongPassword, "Old password is incorrect.")
	case errors.Is(err, util.ErrPasswordTooLong):
		apperrors.RespondWithValidationError(c, map[string]string{"new_password": "must be at most 72 bytes"})
	default:
		middleware.GetLoggerFromContext(c).Error("Password update failed", err, nil)
		apperrors.ParseAndRespond(c, err, "update password")
	}
}

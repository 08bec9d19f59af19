package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
)

// CurrentUserKey holds the authenticated *model.User in the gin context.
const CurrentUserKey = "current_user"

// TokenResolver turns bearer tokens into users.
type TokenResolver interface {
	ResolveAccessToken(token string) (*model.User, error)
	ResolveResetSession(token string) (*model.User, error)
}

type AuthMiddleware struct {
	resolver TokenResolver
}

func NewAuthMiddleware(resolver TokenResolver) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
	}
}

// Authenticate requires a valid access token. Users with a live reset
// session are refused until the reset completes or expires.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			return
		}

		user, err := m.resolver.ResolveAccessToken(token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			case errors.Is(err, service.ErrResetPending):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthResetPending, "Password reset in progress, finish it or wait for it to expire")
			case errors.Is(err, util.ErrInvalidToken), errors.Is(err, service.ErrUserNotFound):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Could not validate credentials")
			default:
				apperrors.InternalError(c, "Failed to authenticate")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"role":    user.Role,
		})

		c.Next()
	}
}

// AuthenticateResetSession admits only the reset session token currently
// stored on the user.
func (m *AuthMiddleware) AuthenticateResetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			return
		}

		user, err := m.resolver.ResolveResetSession(token)
		if err != nil {
			log.Warn("Reset session validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			switch {
			case errors.Is(err, service.ErrNotResetSession):
				apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzResetSessionOnly, "Available only for reset password with reset token")
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Token has expired")
			case errors.Is(err, util.ErrInvalidToken), errors.Is(err, service.ErrUserNotFound):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Could not validate credentials")
			default:
				apperrors.InternalError(c, "Failed to authenticate")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireStaff lets moderators and admins through. It must run after Authenticate.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, _ := GetCurrentUser(c)
		if err := model.RequireStaff(user); err != nil {
			fields := map[string]interface{}{
				"path": c.Request.URL.Path,
			}
			if user != nil {
				fields["user_id"] = user.ID
				fields["user_role"] = user.Role
			}
			log.Warn("Insufficient permissions", fields)
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzStaffOnly, "Not enough permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCurrentUser returns the user stored by Authenticate or AuthenticateResetSession.
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>" and
// answers 401 itself when that fails.
func bearerToken(c *gin.Context) (string, bool) {
	log := GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		log.Warn("Missing authorization header", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		c.Header("WWW-Authenticate", "Bearer")
		apperrors.Unauthorized(c, "Not authenticated")
		c.Abort()
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		log.Warn("Invalid authorization header format", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		c.Header("WWW-Authenticate", "Bearer")
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid authorization header format")
		c.Abort()
		return "", false
	}
	return parts[1], true
}

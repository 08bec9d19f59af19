package service

import (
	"errors"
	"time"

	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists     = errors.New("user with this username exists")
	ErrEmailExists        = errors.New("user with this email exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrResetPending rejects access tokens while a password reset is in progress.
	ErrResetPending = errors.New("password reset in progress")
	// ErrNotResetSession rejects reset session tokens that are not the stored one.
	ErrNotResetSession = errors.New("available only for reset password with reset token")
)

const TokenTypeBearer = "bearer"

// AccessToken is the body returned by every endpoint that mints a bearer token.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthService interface {
	Register(username, email, password string) (*model.User, error)
	Login(username, password string) (*AccessToken, error)
	// ResolveAccessToken returns the user behind a standard bearer token.
	ResolveAccessToken(token string) (*model.User, error)
	// ResolveResetSession returns the user whose stored reset token is exactly token.
	ResolveResetSession(token string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *util.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *util.TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(username, email, password string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	if taken, err := s.userRepo.ExistsByUsername(username, noID); err != nil {
		return nil, err
	} else if taken {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameExists
	}
	if taken, err := s.userRepo.ExistsByEmail(email, noID); err != nil {
		return nil, err
	} else if taken {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrEmailExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	metricAuthEvents.WithLabelValues("register").Inc()
	return user, nil
}

// Login checks the password and mints an access token. It is refused while a
// password reset is in progress.
func (s *authService) Login(username, password string) (*AccessToken, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			metricAuthEvents.WithLabelValues("login_failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		metricAuthEvents.WithLabelValues("login_failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if s.resetPending(user, "") {
		logger.Warn("Login refused during password reset", map[string]interface{}{
			"user_id": user.ID,
		})
		metricAuthEvents.WithLabelValues("login_failed").Inc()
		return nil, ErrResetPending
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, util.TokenAccess)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	metricAuthEvents.WithLabelValues("login").Inc()
	return &AccessToken{AccessToken: token, TokenType: TokenTypeBearer, ExpiresAt: expiresAt}, nil
}

func (s *authService) ResolveAccessToken(token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token, util.TokenAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.findTokenOwner(claims)
	if err != nil {
		return nil, err
	}

	if s.resetPending(user, token) {
		logger.Warn("Access token refused during password reset", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrResetPending
	}
	return user, nil
}

func (s *authService) ResolveResetSession(token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token, util.TokenResetSession)
	if err != nil {
		// a valid access token is authenticated, just not allowed here
		if _, aerr := s.tokens.Verify(token, util.TokenAccess); aerr == nil {
			return nil, ErrNotResetSession
		}
		return nil, err
	}

	user, err := s.findTokenOwner(claims)
	if err != nil {
		return nil, err
	}

	if !user.HasResetToken() || *user.ResetToken != token {
		logger.Warn("Reset session token does not match stored token", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrNotResetSession
	}
	return user, nil
}

// findTokenOwner loads the user named by the token subject. A username that
// has since moved to another account does not resolve.
func (s *authService) findTokenOwner(claims *util.Claims) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(claims.Username())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.ID != claims.UserID {
		logger.Warn("Token subject is held by a different account", map[string]interface{}{
			"user_id":       user.ID,
			"token_user_id": claims.UserID,
		})
		return nil, ErrUserNotFound
	}
	return user, nil
}

// resetPending reports whether the user holds a reset session that is still
// live, or whose token is the one presented.
func (s *authService) resetPending(user *model.User, presented string) bool {
	if !user.HasResetToken() {
		return false
	}
	stored := *user.ResetToken
	if presented != "" && stored == presented {
		return true
	}
	_, err := s.tokens.Verify(stored, util.TokenResetSession)
	return err == nil
}

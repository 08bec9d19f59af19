package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/ikkim/gamecatalog-backend/pkg/mailer"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	// ErrResetCodeNotFound covers every way a reset code can be unusable.
	ErrResetCodeNotFound = errors.New("reset code not found")
	ErrPasswordMismatch  = errors.New("re_new_password must be equal to new_password")
	ErrWrongPassword     = errors.New("old password is incorrect")
	ErrMailDelivery      = errors.New("failed to send password reset email")
)

type PasswordResetService interface {
	// RequestReset mails a single-use reset link to the owner of email.
	RequestReset(ctx context.Context, email string) error
	// ExchangeCode trades a reset code for a reset session token and stores
	// that token on the user.
	ExchangeCode(ctx context.Context, code string) (*AccessToken, error)
	// CompleteReset sets a new password for a user holding a reset session.
	CompleteReset(user *model.User, newPassword, confirmPassword string) error
	ChangePassword(user *model.User, oldPassword, newPassword, confirmPassword string) error
	// SweepExpiredTokens clears stored reset tokens that no longer verify.
	SweepExpiredTokens() (int, error)
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	codes       repository.ResetCodeStore
	tokens      *util.TokenIssuer
	mail        mailer.Mailer
	frontendURL string
}

// NewPasswordResetService wires the reset flow. codes may be nil, in which
// case a reset code stays usable until it expires.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	codes repository.ResetCodeStore,
	tokens *util.TokenIssuer,
	mail mailer.Mailer,
	frontendURL string,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		codes:       codes,
		tokens:      tokens,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		return err
	}

	code, _, err := s.tokens.Issue(user.ID, user.Username, util.TokenResetCode)
	if err != nil {
		logger.Error("Failed to generate reset code", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	msg := mailer.PasswordReset{
		To:        user.Email,
		Username:  user.Username,
		ResetLink: s.frontendURL + "/reset-password/" + code,
		ValidFor:  s.tokens.TTL(util.TokenResetCode),
	}
	if err := s.mail.SendPasswordReset(ctx, msg); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id": user.ID,
	})
	metricPasswordResets.WithLabelValues("requested").Inc()
	return nil
}

func (s *passwordResetService) ExchangeCode(ctx context.Context, code string) (*AccessToken, error) {
	claims, err := s.tokens.Verify(code, util.TokenResetCode)
	if err != nil {
		logger.Warn("Invalid reset code presented", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, ErrResetCodeNotFound
	}

	if s.codes != nil {
		first, err := s.codes.Consume(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
		if err != nil {
			return nil, err
		}
		if !first {
			return nil, ErrResetCodeNotFound
		}
	}

	user, err := s.userRepo.FindByUsername(claims.Username())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetCodeNotFound
		}
		return nil, err
	}
	if user.ID != claims.UserID {
		logger.Warn("Reset code names a username now held by another account", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrResetCodeNotFound
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, util.TokenResetSession)
	if err != nil {
		logger.Error("Failed to generate reset session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	if err := s.userRepo.SetResetToken(user.ID, &token); err != nil {
		return nil, err
	}

	logger.Info("Reset code exchanged for reset session", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": expiresAt,
	})
	metricPasswordResets.WithLabelValues("exchanged").Inc()
	return &AccessToken{AccessToken: token, TokenType: TokenTypeBearer, ExpiresAt: expiresAt}, nil
}

func (s *passwordResetService) CompleteReset(user *model.User, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.storePassword(user, newPassword); err != nil {
		return err
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	metricPasswordResets.WithLabelValues("completed").Inc()
	return nil
}

func (s *passwordResetService) ChangePassword(user *model.User, oldPassword, newPassword, confirmPassword string) error {
	if !util.VerifyPassword(user.PasswordHash, oldPassword) {
		logger.Warn("Password change refused: wrong old password", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrWrongPassword
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.storePassword(user, newPassword); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// storePassword writes the new hash and clears the reset token in one row update.
func (s *passwordResetService) storePassword(user *model.User, password string) error {
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = nil
	return s.userRepo.Update(user)
}

func (s *passwordResetService) SweepExpiredTokens() (int, error) {
	users, err := s.userRepo.FindWithResetToken()
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, user := range users {
		if _, err := s.tokens.Verify(*user.ResetToken, util.TokenResetSession); err == nil {
			continue
		}
		if err := s.userRepo.SetResetToken(user.ID, nil); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return cleared, err
		}
		cleared++
	}

	if cleared > 0 {
		logger.Info("Cleared stale reset tokens", map[string]interface{}{
			"count": cleared,
		})
		metricPasswordResets.WithLabelValues("expired").Add(float64(cleared))
	}
	return cleared, nil
}

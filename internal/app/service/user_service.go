package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid role")

// UserPatch holds the account fields a PATCH may change. Nil fields stay.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *model.UserRole
}

type UserService interface {
	GetByID(id uuid.UUID) (*model.User, error)
	List(skip, limit int) ([]model.User, error)
	// Update applies patch on behalf of actor. Only admins may change roles.
	Update(actor *model.User, id uuid.UUID, patch UserPatch) (*model.User, error)
	Delete(id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(skip, limit int) ([]model.User, error) {
	return s.userRepo.FindAll(skip, limit)
}

func (s *userService) Update(actor *model.User, id uuid.UUID, patch UserPatch) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(*patch.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameExists
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(*patch.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
		user.Email = *patch.Email
	}
	if patch.Role != nil && *patch.Role != user.Role {
		if !patch.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		if actor == nil || actor.Role != model.RoleAdmin {
			return nil, model.ErrForbidden
		}
		user.Role = *patch.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User updated", map[string]interface{}{
		"user_id":  user.ID,
		"actor_id": actorID(actor),
	})
	return user, nil
}

func (s *userService) Delete(id uuid.UUID) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func actorID(actor *model.User) uuid.UUID {
	if actor == nil {
		return uuid.Nil
	}
	return actor.ID
}

package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(skip, limit int) ([]model.User, error)
	FindWithResetToken() ([]model.User, error)
	ExistsByUsername(username string, excludeID uuid.UUID) (bool, error)
	ExistsByEmail(email string, excludeID uuid.UUID) (bool, error)
	Update(user *model.User) error
	SetResetToken(id uuid.UUID, token *string) error
	Delete(id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(skip, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at ASC").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"skip":  skip,
			"limit": limit,
		})
		return nil, err
	}
	return users, nil
}

// FindWithResetToken returns every user with a reset in progress.
func (r *userRepository) FindWithResetToken() ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("reset_token IS NOT NULL").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ExistsByUsername(username string, excludeID uuid.UUID) (bool, error) {
	return r.exists("username = ?", username, excludeID)
}

func (r *userRepository) ExistsByEmail(email string, excludeID uuid.UUID) (bool, error) {
	return r.exists("email = ?", email, excludeID)
}

func (r *userRepository) exists(cond string, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&model.User{}).Where(cond, value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// SetResetToken stores token, or clears the column when token is nil.
func (r *userRepository) SetResetToken(id uuid.UUID, token *string) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("reset_token", token)
	if result.Error != nil {
		logger.Error("Failed to set reset token", result.Error, map[string]interface{}{
			"user_id": id,
			"clear":   token == nil,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		logger.Error("Failed to delete user from database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// Rank orders roles: user < moderator < admin. Unknown roles rank below user.
func (r UserRole) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r UserRole) IsValid() bool {
	return r.Rank() > 0
}

// IsStaff is true for moderators and admins.
func (r UserRole) IsStaff() bool {
	return r.Rank() >= RoleModerator.Rank()
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(125);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	// ResetToken holds the reset session token while a password reset is in
	// progress. While it is set and still valid, access tokens are refused.
	ResetToken *string   `gorm:"type:text" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// HasResetToken reports whether a reset session token is stored for the user.
func (u *User) HasResetToken() bool {
	return u.ResetToken != nil && *u.ResetToken != ""
}

var ErrForbidden = errors.New("not enough permissions")

// RequireStaff allows moderators and admins.
func RequireStaff(u *User) error {
	if !u.IsStaff() {
		return ErrForbidden
	}
	return nil
}

// RequireStaffOrOwner allows staff, or the user whose id is ownerID.
func RequireStaffOrOwner(u *User, ownerID uuid.UUID) error {
	if u == nil {
		return ErrForbidden
	}
	if u.IsStaff() || u.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCatalogNotFound   = errors.New("catalog entry not found")
	ErrCatalogNameExists = errors.New("catalog entry with this name exists")
	ErrEmptyName         = errors.New("name must not be blank")
)

// cleanName trims a submitted name and rejects blank ones.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// ensureNameFree fails with ErrCatalogNameExists when another row already
// carries name.
func ensureNameFree(exists func(string, uuid.UUID) (bool, error), name string, excludeID uuid.UUID) error {
	taken, err := exists(name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCatalogNameExists
	}
	return nil
}

func catalogNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCatalogNotFound
	}
	return err
}

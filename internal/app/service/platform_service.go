package service

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
)

type PlatformService interface {
	Create(name string) (*model.Platform, error)
	GetByID(id uuid.UUID) (*model.Platform, error)
	List(skip, limit int) ([]model.Platform, error)
	Rename(id uuid.UUID, name string) (*model.Platform, error)
	Delete(id uuid.UUID) error
}

type platformService struct {
	repo repository.NamedRepository[model.Platform]
}

func NewPlatformService(repo repository.NamedRepository[model.Platform]) PlatformService {
	return &platformService{repo: repo}
}

func (s *platformService) Create(name string) (*model.Platform, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := ensureNameFree(s.repo.ExistsByName, name, uuid.Nil); err != nil {
		return nil, err
	}

	platform := &model.Platform{Name: name}
	if err := s.repo.Create(platform); err != nil {
		return nil, err
	}

	logger.Info("Platform created", map[string]interface{}{
		"platform_id": platform.ID,
		"name":        platform.Name,
	})
	metricCatalogWrites.WithLabelValues("platform", "create").Inc()
	return platform, nil
}

func (s *platformService) GetByID(id uuid.UUID) (*model.Platform, error) {
	platform, err := s.repo.FindByID(id)
	if err != nil {
		return nil, catalogNotFound(err)
	}
	return platform, nil
}

func (s *platformService) List(skip, limit int) ([]model.Platform, error) {
	return s.repo.FindAll(skip, limit)
}

func (s *platformService) Rename(id uuid.UUID, name string) (*model.Platform, error) {
	platform, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	name, err = cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := ensureNameFree(s.repo.ExistsByName, name, platform.ID); err != nil {
		return nil, err
	}

	platform.Name = name
	if err := s.repo.Update(platform); err != nil {
		return nil, err
	}
	metricCatalogWrites.WithLabelValues("platform", "update").Inc()
	return platform, nil
}

func (s *platformService) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return catalogNotFound(err)
	}
	logger.Info("Platform deleted", map[string]interface{}{
		"platform_id": id,
	})
	metricCatalogWrites.WithLabelValues("platform", "delete").Inc()
	return nil
}

package service

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
)

type DeveloperService interface {
	Create(input CompanyInput) (*model.Developer, error)
	GetByID(id uuid.UUID) (*model.Developer, error)
	List(skip, limit int) ([]model.Developer, error)
	Update(id uuid.UUID, patch CompanyPatch) (*model.Developer, error)
	Delete(id uuid.UUID) error
}

type developerService struct {
	repo repository.NamedRepository[model.Developer]
}

func NewDeveloperService(repo repository.NamedRepository[model.Developer]) DeveloperService {
	return &developerService{repo: repo}
}

func (s *developerService) Create(input CompanyInput) (*model.Developer, error) {
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureNameFree(s.repo.ExistsByName, name, uuid.Nil); err != nil {
		return nil, err
	}

	developer := &model.Developer{Name: name, Country: input.Country}
	if err := s.repo.Create(developer); err != nil {
		return nil, err
	}

	logger.Info("Developer created", map[string]interface{}{
		"developer_id": developer.ID,
	})
	metricCatalogWrites.WithLabelValues("developer", "create").Inc()
	return developer, nil
}

func (s *developerService) GetByID(id uuid.UUID) (*model.Developer, error) {
	developer, err := s.repo.FindByID(id)
	if err != nil {
		return nil, catalogNotFound(err)
	}
	return developer, nil
}

func (s *developerService) List(skip, limit int) ([]model.Developer, error) {
	return s.repo.FindAll(skip, limit)
}

func (s *developerService) Update(id uuid.UUID, patch CompanyPatch) (*model.Developer, error) {
	developer, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := cleanName(*patch.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureNameFree(s.repo.ExistsByName, name, developer.ID); err != nil {
			return nil, err
		}
		developer.Name = name
	}
	if patch.Country != nil {
		developer.Country = *patch.Country
	}

	if err := s.repo.Update(developer); err != nil {
		return nil, err
	}
	metricCatalogWrites.WithLabelValues("developer", "update").Inc()
	return developer, nil
}

func (s *developerService) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return catalogNotFound(err)
	}
	logger.Info("Developer deleted", map[string]interface{}{
		"developer_id": id,
	})
	metricCatalogWrites.WithLabelValues("developer", "delete").Inc()
	return nil
}

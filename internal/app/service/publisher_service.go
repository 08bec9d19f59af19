package service

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
)

// CompanyInput is the create body shared by publishers and developers.
type CompanyInput struct {
	Name    string
	Country string
}

type CompanyPatch struct {
	Name    *string
	Country *string
}

type PublisherService interface {
	Create(input CompanyInput) (*model.Publisher, error)
	GetByID(id uuid.UUID) (*model.Publisher, error)
	List(skip, limit int) ([]model.Publisher, error)
	Update(id uuid.UUID, patch CompanyPatch) (*model.Publisher, error)
	Delete(id uuid.UUID) error
}

type publisherService struct {
	repo repository.NamedRepository[model.Publisher]
}

func NewPublisherService(repo repository.NamedRepository[model.Publisher]) PublisherService {
	return &publisherService{repo: repo}
}

func (s *publisherService) Create(input CompanyInput) (*model.Publisher, error) {
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureNameFree(s.repo.ExistsByName, name, uuid.Nil); err != nil {
		return nil, err
	}

	publisher := &model.Publisher{Name: name, Country: input.Country}
	if err := s.repo.Create(publisher); err != nil {
		return nil, err
	}

	logger.Info("Publisher created", map[string]interface{}{
		"publisher_id": publisher.ID,
	})
	metricCatalogWrites.WithLabelValues("publisher", "create").Inc()
	return publisher, nil
}

func (s *publisherService) GetByID(id uuid.UUID) (*model.Publisher, error) {
	publisher, err := s.repo.FindByID(id)
	if err != nil {
		return nil, catalogNotFound(err)
	}
	return publisher, nil
}

func (s *publisherService) List(skip, limit int) ([]model.Publisher, error) {
	return s.repo.FindAll(skip, limit)
}

func (s *publisherService) Update(id uuid.UUID, patch CompanyPatch) (*model.Publisher, error) {
	publisher, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := cleanName(*patch.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureNameFree(s.repo.ExistsByName, name, publisher.ID); err != nil {
			return nil, err
		}
		publisher.Name = name
	}
	if patch.Country != nil {
		publisher.Country = *patch.Country
	}

	if err := s.repo.Update(publisher); err != nil {
		return nil, err
	}
	metricCatalogWrites.WithLabelValues("publisher", "update").Inc()
	return publisher, nil
}

func (s *publisherService) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return catalogNotFound(err)
	}
	logger.Info("Publisher deleted", map[string]interface{}{
		"publisher_id": id,
	})
	metricCatalogWrites.WithLabelValues("publisher", "delete").Inc()
	return nil
}

package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
)

type GenreInput struct {
	Name        string
	Description string
}

type GenrePatch struct {
	Name        *string
	Description *string
}

type GenreService interface {
	Create(input GenreInput) (*model.Genre, error)
	GetByID(id uuid.UUID) (*model.Genre, error)
	GetBySlug(slug string) (*model.Genre, error)
	List(skip, limit int) ([]model.Genre, error)
	Update(id uuid.UUID, patch GenrePatch) (*model.Genre, error)
	Delete(id uuid.UUID) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) Create(input GenreInput) (*model.Genre, error) {
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(name, uuid.Nil); err != nil {
		return nil, err
	}

	genre := &model.Genre{Name: name, Description: input.Description}
	if err := s.repo.Create(genre); err != nil {
		return nil, err
	}

	logger.Info("Genre created", map[string]interface{}{
		"genre_id": genre.ID,
		"slug":     genre.Slug,
	})
	metricCatalogWrites.WithLabelValues("genre", "create").Inc()
	return genre, nil
}

func (s *genreService) GetByID(id uuid.UUID) (*model.Genre, error) {
	genre, err := s.repo.FindByID(id)
	if err != nil {
		return nil, catalogNotFound(err)
	}
	return genre, nil
}

func (s *genreService) GetBySlug(slug string) (*model.Genre, error) {
	genre, err := s.repo.FindBySlug(slug)
	if err != nil {
		return nil, catalogNotFound(err)
	}
	return genre, nil
}

func (s *genreService) List(skip, limit int) ([]model.Genre, error) {
	return s.repo.FindAll(skip, limit)
}

func (s *genreService) Update(id uuid.UUID, patch GenrePatch) (*model.Genre, error) {
	genre, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := cleanName(*patch.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureAvailable(name, genre.ID); err != nil {
			return nil, err
		}
		genre.Name = name
	}
	if patch.Description != nil {
		genre.Description = *patch.Description
	}

	if err := s.repo.Update(genre); err != nil {
		return nil, err
	}
	metricCatalogWrites.WithLabelValues("genre", "update").Inc()
	return genre, nil
}

func (s *genreService) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return catalogNotFound(err)
	}
	logger.Info("Genre deleted", map[string]interface{}{
		"genre_id": id,
	})
	metricCatalogWrites.WithLabelValues("genre", "delete").Inc()
	return nil
}

// ensureAvailable checks both the name and the slug derived from it, since
// two distinct names can share a slug.
func (s *genreService) ensureAvailable(name string, excludeID uuid.UUID) error {
	if err := ensureNameFree(s.repo.ExistsByName, name, excludeID); err != nil {
		return err
	}

	slug := util.Slugify(name)
	if slug == "" {
		return nil
	}
	existing, err := s.repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(catalogNotFound(err), ErrCatalogNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrCatalogNameExists
	}
	return nil
}

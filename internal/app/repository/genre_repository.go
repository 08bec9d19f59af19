package repository

import (
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"gorm.io/gorm"
)

// GenreRepository adds slug lookup to the named entity operations.
type GenreRepository interface {
	NamedRepository[model.Genre]
	FindBySlug(slug string) (*model.Genre, error)
}

type genreRepository struct {
	*namedRepository[model.Genre]
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{
		namedRepository: newNamedRepository[model.Genre](db, "genre", &model.GenreGame{}, "genre_id"),
	}
}

// WithTx keeps the slug lookup on the transactional copy, so the result can
// be asserted back to GenreRepository.
func (r *genreRepository) WithTx(tx *gorm.DB) NamedRepository[model.Genre] {
	return &genreRepository{
		namedRepository: newNamedRepository[model.Genre](tx, r.kind, r.joinModel, r.joinColumn),
	}
}

func (r *genreRepository) FindBySlug(slug string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameAssociations is the set of relation lists written with a game. A nil
// slice leaves that association untouched, an empty one clears it.
type GameAssociations struct {
	Genres     []model.Genre
	Developers []model.Developer
	Publishers []model.Publisher
	Platforms  []model.Platform
}

type GameRepository interface {
	Create(game *model.Game) error
	FindByID(id uuid.UUID) (*model.Game, error)
	FindAll(skip, limit int) ([]model.Game, error)
	// FindByName returns every game with exactly this name, platforms loaded.
	FindByName(name string) ([]model.Game, error)
	// Update saves scalar columns and replaces the non-nil associations.
	Update(game *model.Game, assoc GameAssociations) error
	SetCoverURL(id uuid.UUID, url string) error
	Delete(id uuid.UUID) error
	WithTx(tx *gorm.DB) GameRepository
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) WithTx(tx *gorm.DB) GameRepository {
	return &gameRepository{db: tx}
}

func (r *gameRepository) preloaded() *gorm.DB {
	return r.db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Developers", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Publishers", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Platforms", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
}

// Create inserts the game and the join rows for the associations already set
// on it. The associated rows themselves must exist.
func (r *gameRepository) Create(game *model.Game) error {
	logger.Debug("Creating game in database", map[string]interface{}{
		"name":      game.Name,
		"platforms": len(game.Platforms),
	})

	if err := r.db.Omit("Genres.*", "Developers.*", "Publishers.*", "Platforms.*").Create(game).Error; err != nil {
		logger.Error("Failed to create game in database", err, map[string]interface{}{
			"name": game.Name,
		})
		return err
	}
	return nil
}

func (r *gameRepository) FindByID(id uuid.UUID) (*model.Game, error) {
	var game model.Game
	if err := r.preloaded().Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) FindAll(skip, limit int) ([]model.Game, error) {
	games := []model.Game{}
	err := r.preloaded().Order("name ASC").Order("id ASC").Offset(skip).Limit(limit).Find(&games).Error
	if err != nil {
		logger.Error("Failed to list games", err, map[string]interface{}{
			"skip":  skip,
			"limit": limit,
		})
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) FindByName(name string) ([]model.Game, error) {
	games := []model.Game{}
	if err := r.db.Preload("Platforms").Where("name = ?", name).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) Update(game *model.Game, assoc GameAssociations) error {
	logger.Debug("Updating game in database", map[string]interface{}{
		"game_id": game.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(game).Error; err != nil {
		logger.Error("Failed to update game in database", err, map[string]interface{}{
			"game_id": game.ID,
		})
		return err
	}

	replace := []struct {
		field  string
		values interface{}
		set    bool
	}{
		{"Genres", assoc.Genres, assoc.Genres != nil},
		{"Developers", assoc.Developers, assoc.Developers != nil},
		{"Publishers", assoc.Publishers, assoc.Publishers != nil},
		{"Platforms", assoc.Platforms, assoc.Platforms != nil},
	}
	for _, a := range replace {
		if !a.set {
			continue
		}
		if err := r.db.Model(game).Omit(a.field + ".*").Association(a.field).Replace(a.values); err != nil {
			logger.Error("Failed to replace game association", err, map[string]interface{}{
				"game_id": game.ID,
				"field":   a.field,
			})
			return err
		}
	}
	return nil
}

func (r *gameRepository) SetCoverURL(id uuid.UUID, url string) error {
	result := r.db.Model(&model.Game{}).Where("id = ?", id).Update("cover_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the game and its join rows. Referenced catalog rows stay.
func (r *gameRepository) Delete(id uuid.UUID) error {
	logger.Debug("Deleting game from database", map[string]interface{}{
		"game_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		joins := []interface{}{
			&model.GenreGame{},
			&model.DeveloperGame{},
			&model.PublisherGame{},
			&model.PlatformGame{},
		}
		for _, join := range joins {
			if err := tx.Where("game_id = ?", id).Delete(join).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&model.Game{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

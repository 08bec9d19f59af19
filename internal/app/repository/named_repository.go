package repository

import (
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
)

// NamedRepository stores catalog entities whose name is unique: genres,
// publishers, developers and platforms.
type NamedRepository[T any] interface {
	Create(entity *T) error
	FindByID(id uuid.UUID) (*T, error)
	FindByNames(names []string) ([]T, error)
	FindAll(skip, limit int) ([]T, error)
	ExistsByName(name string, excludeID uuid.UUID) (bool, error)
	Update(entity *T) error
	// Delete removes the entity and its links to games. Games stay.
	Delete(id uuid.UUID) error
	WithTx(tx *gorm.DB) NamedRepository[T]
}

type namedRepository[T any] struct {
	db   *gorm.DB
	kind string
	// join model and column linking this entity to games
	joinModel  interface{}
	joinColumn string
}

func newNamedRepository[T any](db *gorm.DB, kind string, joinModel interface{}, joinColumn string) *namedRepository[T] {
	return &namedRepository[T]{db: db, kind: kind, joinModel: joinModel, joinColumn: joinColumn}
}

func NewPublisherRepository(db *gorm.DB) NamedRepository[model.Publisher] {
	return newNamedRepository[model.Publisher](db, "publisher", &model.PublisherGame{}, "publisher_id")
}

func NewDeveloperRepository(db *gorm.DB) NamedRepository[model.Developer] {
	return newNamedRepository[model.Developer](db, "developer", &model.DeveloperGame{}, "developer_id")
}

func NewPlatformRepository(db *gorm.DB) NamedRepository[model.Platform] {
	return newNamedRepository[model.Platform](db, "platform", &model.PlatformGame{}, "platform_id")
}

func (r *namedRepository[T]) WithTx(tx *gorm.DB) NamedRepository[T] {
	return newNamedRepository[T](tx, r.kind, r.joinModel, r.joinColumn)
}

func (r *namedRepository[T]) Create(entity *T) error {
	if err := r.db.Create(entity).Error; err != nil {
		logger.Error("Failed to create catalog entity", err, map[string]interface{}{
			"kind": r.kind,
		})
		return err
	}
	return nil
}

func (r *namedRepository[T]) FindByID(id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindByNames returns the rows whose name is one of names. Names with no
// row are simply absent from the result.
func (r *namedRepository[T]) FindByNames(names []string) ([]T, error) {
	entities := []T{}
	if len(names) == 0 {
		return entities, nil
	}
	if err := r.db.Where("name IN ?", names).Find(&entities).Error; err != nil {
		logger.Error("Failed to find catalog entities by name", err, map[string]interface{}{
			"kind":  r.kind,
			"names": names,
		})
		return nil, err
	}
	return entities, nil
}

func (r *namedRepository[T]) FindAll(skip, limit int) ([]T, error) {
	entities := []T{}
	if err := r.db.Order("name ASC").Offset(skip).Limit(limit).Find(&entities).Error; err != nil {
		logger.Error("Failed to list catalog entities", err, map[string]interface{}{
			"kind": r.kind,
		})
		return nil, err
	}
	return entities, nil
}

func (r *namedRepository[T]) ExistsByName(name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(new(T)).Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *namedRepository[T]) Update(entity *T) error {
	if err := r.db.Save(entity).Error; err != nil {
		logger.Error("Failed to update catalog entity", err, map[string]interface{}{
			"kind": r.kind,
		})
		return err
	}
	return nil
}

func (r *namedRepository[T]) Delete(id uuid.UUID) error {
	logger.Debug("Deleting catalog entity", map[string]interface{}{
		"kind": r.kind,
		"id":   id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(r.joinColumn+" = ?", id).Delete(r.joinModel).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(new(T))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
	"gorm.io/gorm"
)

type Genre struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// BeforeSave keeps the slug in step with the name. It runs ahead of the
// create hooks, so it also assigns the id.
func (g *Genre) BeforeSave(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.Slug = util.Slugify(g.Name)
	if g.Slug == "" {
		g.Slug = "genre-" + g.ID.String()[:8]
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game names are not unique on their own: the same title may ship on
// different platform sets.
type Game struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);index;not null" json:"name"`
	Price       float64   `gorm:"not null" json:"price"`
	Discount    float64   `gorm:"not null;default:0" json:"discount"`
	Description string    `gorm:"type:text" json:"description"`
	ReleaseDate *Date     `json:"release_date"`
	CoverURL    *string   `gorm:"type:text" json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Genres     []Genre     `gorm:"many2many:genre_games" json:"genres"`
	Developers []Developer `gorm:"many2many:developer_games" json:"developers"`
	Publishers []Publisher `gorm:"many2many:publisher_games" json:"publishers"`
	Platforms  []Platform  `gorm:"many2many:platform_games" json:"platforms"`
}

func (Game) TableName() string {
	return "games"
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// PlatformIDs returns the ids of the game's platforms.
func (g *Game) PlatformIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		ids = append(ids, p.ID)
	}
	return ids
}

// Join rows between games and catalog entities. They are written only through
// game create, patch and delete, and removed when either side is deleted.

type GenreGame struct {
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (GenreGame) TableName() string {
	return "genre_games"
}

type DeveloperGame struct {
	DeveloperID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (DeveloperGame) TableName() string {
	return "developer_games"
}

type PublisherGame struct {
	PublisherID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (PublisherGame) TableName() string {
	return "publisher_games"
}

type PlatformGame struct {
	PlatformID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (PlatformGame) TableName() string {
	return "platform_games"
}

// GameJoinTables binds each association to its join model. It must be applied
// to a *gorm.DB before migrating or querying games.
func GameJoinTables(db *gorm.DB) error {
	joins := []struct {
		field string
		model interface{}
	}{
		{"Genres", &GenreGame{}},
		{"Developers", &DeveloperGame{}},
		{"Publishers", &PublisherGame{}},
		{"Platforms", &PlatformGame{}},
	}
	for _, j := range joins {
		if err := db.SetupJoinTable(&Game{}, j.field, j.model); err != nil {
			return err
		}
	}
	return nil
}

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Publisher{},
		&Developer{},
		&Platform{},
		&Game{},
		&GenreGame{},
		&DeveloperGame{},
		&PublisherGame{},
		&PlatformGame{},
	}
}

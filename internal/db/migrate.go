package db

import (
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates every model on conn. Join tables must already be
// registered on conn (see model.GameJoinTables).
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := model.Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// defaultPlatforms are created on first start so games can be attached to
// something before staff populate the catalog.
var defaultPlatforms = []string{"PC", "PlayStation 5", "Xbox Series X|S", "Nintendo Switch"}

// Seed inserts default platforms that are not present yet.
func Seed() error {
	return SeedDB(DB)
}

func SeedDB(conn *gorm.DB) error {
	created := 0
	for _, name := range defaultPlatforms {
		platform := model.Platform{Name: name}
		result := conn.Where(model.Platform{Name: name}).FirstOrCreate(&platform)
		if result.Error != nil {
			logger.Error("Failed to seed platform", result.Error, map[string]interface{}{
				"name": name,
			})
			return result.Error
		}
		created += int(result.RowsAffected)
	}

	logger.Info("Seeded default platforms", map[string]interface{}{
		"created": created,
	})
	return nil
}

package db

import (
	"os"
	"path/filepath"
	"strings"

	"blogserver/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the sqlite database at the given path and migrates the
// schema. Foreign key enforcement is switched on via the driver DSN so that
// cascade deletes (author -> blogs -> comments) actually fire.
func Open(dbPath string) (*gorm.DB, error) {
	dsn := dbPath
	if !strings.HasPrefix(dbPath, "file:") && dbPath != ":memory:" {
		// Ensure the directory exists (create if it doesn't)
		dir := filepath.Dir(dbPath)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		dsn = dbPath + "?_foreign_keys=on"
	} else if !strings.Contains(dsn, "_foreign_keys") {
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
	}

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto migrate the schema
	if err := database.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Tag{},
		&models.Menu{}, &models.Blog{}, &models.Comment{},
	); err != nil {
		return nil, err
	}

	return database, nil
}

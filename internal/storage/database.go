package storage

import (
	"github.com/2n4a/loreshifter/internal/world"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database at the given path and keeps the
// schema current via AutoMigrate. The database holds worlds, users and game
// records only; live sessions stay in memory.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&world.User{}, &world.World{}, &world.GameRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

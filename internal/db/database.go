package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clintecker/clanker-radio-sub000/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New opens the station's asset/history store. The store is owned by the
// ingest and reporting collaborators; the scheduling core treats it as
// read-only.
func New(path string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open asset store %s: %w", path, err)
	}

	log.Printf("✅ Asset store opened: %s", path)
	return &Client{DB: db}, nil
}

// AutoMigrate creates/updates tables based on struct definitions.
// Harmless on an already-migrated store.
func (c *Client) AutoMigrate() error {
	return c.DB.AutoMigrate(
		&models.Track{},
		&models.PlayHistory{},
	)
}

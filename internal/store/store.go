package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-logr/logr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FileName is the store's file name inside the run directory.
const FileName = "clusters.db"

// Cluster is one cluster created by a provisioning run.
type Cluster struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Role      string
	CreatedAt time.Time
}

// Store persists Cluster records.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the store at dsn. Use ":memory:" for a private
// in-memory database.
func Open(dsn string, log logr.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(log.WithName("store")),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster store %s: %w", dsn, err)
	}

	// A single connection keeps ":memory:" databases shared across calls.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access cluster store: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Cluster{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cluster store: %w", err)
	}
	return &Store{db: db}, nil
}

// Save records a cluster. Saving an existing id updates its entry.
func (s *Store) Save(ctx context.Context, c Cluster) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&c).Error
	if err != nil {
		return fmt.Errorf("failed to save cluster %s: %w", c.ID, err)
	}
	return nil
}

// List returns every recorded cluster, oldest first.
func (s *Store) List(ctx context.Context) ([]Cluster, error) {
	var clusters []Cluster
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&clusters).Error; err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	return clusters, nil
}

// Delete removes the entry for id. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&Cluster{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete cluster %s: %w", id, err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"fmt"
	"log/slog"
)

// Open connects to the database at path, applies pending migrations and seeds
// the catalog.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := NewConnection(path)
	if err != nil {
		return nil, err
	}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if dirty {
		db.Close()
		return nil, fmt.Errorf("database schema version %d is dirty", version)
	}
	slog.Debug("Database migrated", "version", version)

	catalog, err := LoadSeedCatalog()
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := Seed(ctx, db, catalog); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

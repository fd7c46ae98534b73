package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yml
var seedCatalog []byte

// SeedCatalog is the initial content of the catalog
type SeedCatalog struct {
	Categories []string     `yaml:"categories"`
	Objects    []SeedObject `yaml:"objects"`
}

type SeedObject struct {
	NameFR      string   `yaml:"name_fr"`
	NameSci     string   `yaml:"name_sci"`
	Description string   `yaml:"description"`
	DistanceLY  *float64 `yaml:"distance_ly"`
	ImageURL    string   `yaml:"image_url"`
	PublishDate string   `yaml:"publish_date"`
	Category    string   `yaml:"category"`
}

// LoadSeedCatalog parses and validates the embedded seed file
func LoadSeedCatalog() (*SeedCatalog, error) {
	return parseSeedCatalog(seedCatalog)
}

func parseSeedCatalog(data []byte) (*SeedCatalog, error) {
	var catalog SeedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}

	if err := validateSeedCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid seed catalog: %w", err)
	}

	return &catalog, nil
}

func validateSeedCatalog(catalog *SeedCatalog) error {
	if len(catalog.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	known := make(map[string]bool, len(catalog.Categories))
	for _, name := range catalog.Categories {
		if name == "" {
			return fmt.Errorf("category name cannot be empty")
		}
		known[name] = true
	}

	for i, obj := range catalog.Objects {
		if obj.NameFR == "" {
			return fmt.Errorf("object %d: name_fr is required", i)
		}
		if obj.Description == "" {
			return fmt.Errorf("object %s: description is required", obj.NameFR)
		}
		if _, err := time.Parse(PublishDateLayout, obj.PublishDate); err != nil {
			return fmt.Errorf("object %s: invalid publish_date %q", obj.NameFR, obj.PublishDate)
		}
		if !known[obj.Category] {
			return fmt.Errorf("object %s: unknown category %q", obj.NameFR, obj.Category)
		}
	}

	return nil
}

// Seed inserts the categories and objects of the catalog. Existing rows are
// left untouched, so seeding is safe on every start.
func Seed(ctx context.Context, db *DB, catalog *SeedCatalog) error {
	categoriesAdded := 0
	objectsAdded := 0

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for _, name := range catalog.Categories {
			res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name) VALUES (?)`, name)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				categoriesAdded++
			}
		}

		for _, obj := range catalog.Objects {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO celestial_objects (
					name_fr, name_sci, description, distance_ly, image_url, publish_date, category_id
				) VALUES (?, ?, ?, ?, ?, ?, (SELECT id FROM categories WHERE name = ?))
				ON CONFLICT (name_fr) DO NOTHING
			`, obj.NameFR, nullString(obj.NameSci), obj.Description, obj.DistanceLY,
				nullString(obj.ImageURL), obj.PublishDate, obj.Category)
			if err != nil {
				return fmt.Errorf("failed to seed object %s: %w", obj.NameFR, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				objectsAdded++
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Catalog seeded", "categories_added", categoriesAdded, "objects_added", objectsAdded)
	return nil
}

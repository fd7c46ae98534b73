package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const objectSelect = `
	SELECT o.id, o.name_fr, o.name_sci, o.description, o.distance_ly, o.image_url,
	       o.publish_date, o.category_id, c.name
	FROM celestial_objects o
	JOIN categories c ON c.id = o.category_id
`

const objectOrder = ` ORDER BY o.publish_date DESC, o.id DESC`

// ObjectRepo handles database operations for catalog objects
type ObjectRepo struct {
	db *DB
}

// NewObjectRepository creates a new object repository
func NewObjectRepository(db *DB) *ObjectRepo {
	return &ObjectRepo{db: db}
}

// GetObjectByID returns nil, nil when no object has the given id
func (r *ObjectRepo) GetObjectByID(ctx context.Context, id int64) (*CelestialObject, error) {
	row := r.db.QueryRowContext(ctx, objectSelect+` WHERE o.id = ?`, id)

	obj, err := scanObject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object by ID: %w", err)
	}

	return obj, nil
}

// GetObjectByName looks an object up by its French display name
func (r *ObjectRepo) GetObjectByName(ctx context.Context, nameFR string) (*CelestialObject, error) {
	row := r.db.QueryRowContext(ctx, objectSelect+` WHERE o.name_fr = ?`, nameFR)

	obj, err := scanObject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object by name: %w", err)
	}

	return obj, nil
}

func (r *ObjectRepo) ListObjects(ctx context.Context) ([]CelestialObject, error) {
	rows, err := r.db.QueryContext(ctx, objectSelect+objectOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return collectObjects(rows)
}

func (r *ObjectRepo) ListObjectsByCategory(ctx context.Context, categoryID int64) ([]CelestialObject, error) {
	rows, err := r.db.QueryContext(ctx, objectSelect+` WHERE o.category_id = ?`+objectOrder, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects by category: %w", err)
	}
	return collectObjects(rows)
}

// SearchObjects matches term as a case- and accent-insensitive substring of the
// French name, the scientific name or the description.
func (r *ObjectRepo) SearchObjects(ctx context.Context, term string) ([]CelestialObject, error) {
	rows, err := r.db.QueryContext(ctx, objectSelect+`
		WHERE instr(fold(o.name_fr), fold(?1)) > 0
		   OR instr(fold(COALESCE(o.name_sci, '')), fold(?1)) > 0
		   OR instr(fold(o.description), fold(?1)) > 0
	`+objectOrder, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search objects: %w", err)
	}
	return collectObjects(rows)
}

func (r *ObjectRepo) GetObjectCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM celestial_objects").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get object count: %w", err)
	}
	return count, nil
}

// UpsertObject inserts the item or, when an object with the same French name
// exists, replaces its fields in place. The distance is reset to NULL. When
// EnteredBy is set the authorship record is written in the same transaction.
func (r *ObjectRepo) UpsertObject(ctx context.Context, item ObjectItem) (int64, error) {
	var id int64

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO celestial_objects (
				name_fr, name_sci, description, distance_ly, image_url,
				publish_date, category_id, external_id
			) VALUES (?, ?, ?, NULL, ?, ?, ?, ?)
			ON CONFLICT (name_fr) DO UPDATE SET
				name_sci = excluded.name_sci,
				description = excluded.description,
				distance_ly = NULL,
				image_url = excluded.image_url,
				publish_date = excluded.publish_date,
				category_id = excluded.category_id,
				external_id = excluded.external_id
			RETURNING id
		`, item.NameFR, nullString(item.NameSci), item.Description, nullString(item.ImageURL),
			item.PublishDate, item.CategoryID, nullString(item.ExternalID)).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to upsert object: %w", err)
		}

		if item.EnteredBy == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO object_authorship (admin_id, object_id, entered_at)
			VALUES (?, ?, ?)
			ON CONFLICT (admin_id, object_id) DO UPDATE SET entered_at = excluded.entered_at
		`, item.EnteredBy, id, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to record authorship: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (*CelestialObject, error) {
	var obj CelestialObject
	err := row.Scan(
		&obj.ID, &obj.NameFR, &obj.NameSci, &obj.Description, &obj.DistanceLY,
		&obj.ImageURL, &obj.PublishDate, &obj.CategoryID, &obj.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

func collectObjects(rows *sql.Rows) ([]CelestialObject, error) {
	defer rows.Close()

	objects := []CelestialObject{}
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan object row: %w", err)
		}
		objects = append(objects, *obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating object rows: %w", err)
	}

	return objects, nil
}

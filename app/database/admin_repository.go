package database

import (
	"context"
	"database/sql"
	"fmt"
)

// AdminRepo handles administrator accounts
type AdminRepo struct {
	db *DB
}

// NewAdminRepository creates a new administrator repository
func NewAdminRepository(db *DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// GetAdminByHandle returns nil, nil for an unknown handle
func (r *AdminRepo) GetAdminByHandle(ctx context.Context, handle string) (*Administrator, error) {
	var admin Administrator
	err := r.db.QueryRowContext(ctx, `
		SELECT id, handle, password_hash
		FROM administrators
		WHERE handle = ?
	`, handle).Scan(&admin.ID, &admin.Handle, &admin.PasswordHash)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get administrator: %w", err)
	}

	return &admin, nil
}

// CreateAdmin inserts an administrator unless the handle is already taken.
// It reports whether a row was created.
func (r *AdminRepo) CreateAdmin(ctx context.Context, handle, passwordHash string) (bool, error) {
	var created bool

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO administrators (handle, password_hash)
			VALUES (?, ?)
			ON CONFLICT (handle) DO NOTHING
		`, handle, passwordHash)
		if err != nil {
			return fmt.Errorf("failed to create administrator: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		created = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewConnection(t *testing.T) {
	// Parent directory does not exist
	_, err := NewConnection(filepath.Join(t.TempDir(), "missing", "dir", "catalog.db"))
	assert.Error(t, err)
}

func TestOpen_IsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	count, err := NewObjectRepository(db).GetObjectCount(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	again, err := NewObjectRepository(db).GetObjectCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, count, again, "reopening must not duplicate seed rows")
}

func TestForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	_, err := NewObjectRepository(db).UpsertObject(context.Background(), ObjectItem{
		NameFR:      "Orphelin",
		Description: "Objet sans catégorie",
		PublishDate: "2025-01-01",
		CategoryID:  9999,
	})
	assert.Error(t, err)
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nébuleuse", "nebuleuse"},
		{"CÉRÈS", "ceres"},
		{"Éris", "eris"},
		{"Galaxie d'Andromède", "galaxie d'andromede"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestFoldSQLFunction(t *testing.T) {
	db := openTestDB(t)

	var folded string
	require.NoError(t, db.QueryRow(`SELECT fold('Ganymède')`).Scan(&folded))
	assert.Equal(t, "ganymede", folded)
}

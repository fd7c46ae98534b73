package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedCatalog(t *testing.T) {
	catalog, err := LoadSeedCatalog()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"Planet", "Moon", "Galaxy", "Nebula", "Asteroid", "Globular Cluster", "Outer Planet",
	}, catalog.Categories)
	assert.NotEmpty(t, catalog.Objects)
}

func TestParseSeedCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no categories", "objects: []"},
		{"unknown category", `
categories: [Planet]
objects:
  - name_fr: X
    description: d
    publish_date: "2024-01-01"
    category: Comet
`},
		{"bad date", `
categories: [Planet]
objects:
  - name_fr: X
    description: d
    publish_date: "01/02/2024"
    category: Planet
`},
		{"missing description", `
categories: [Planet]
objects:
  - name_fr: X
    publish_date: "2024-01-01"
    category: Planet
`},
		{"not yaml", "categories: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeedCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSeed_DoesNotOverwrite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewObjectRepository(db)

	mars, err := repo.GetObjectByName(ctx, "Mars")
	require.NoError(t, err)
	_, err = repo.UpsertObject(ctx, ObjectItem{
		NameFR:      "Mars",
		Description: "Changed",
		PublishDate: "2025-01-01",
		CategoryID:  mars.CategoryID,
	})
	require.NoError(t, err)

	catalog, err := LoadSeedCatalog()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, db, catalog))

	again, err := repo.GetObjectByName(ctx, "Mars")
	require.NoError(t, err)
	assert.Equal(t, "Changed", again.Description)
}

func TestCategoryRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 7)

	category, err := repo.GetCategoryByID(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, categories[0], *category)

	missing, err := repo.GetCategoryByID(ctx, 987654)
	require.NoError(t, err)
	assert.Nil(t, missing)

	counts, err := repo.GetCategoryCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 7)

	total := 0
	for _, c := range counts {
		total += c.Objects
	}
	objects, err := NewObjectRepository(db).GetObjectCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, objects, total)
}

func TestAdminRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	created, err := repo.CreateAdmin(ctx, "admin", "hash-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateAdmin(ctx, "admin", "hash-2")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := repo.GetAdminByHandle(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "hash-1", admin.PasswordHash)

	missing, err := repo.GetAdminByHandle(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSurveyRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSurveyRepository(db)
	ctx := context.Background()

	mars, err := NewObjectRepository(db).GetObjectByName(ctx, "Mars")
	require.NoError(t, err)

	older := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	_, err = repo.InsertFeedback(ctx, SurveyFeedback{
		Email:       "a@example.com",
		Preference:  "Les galaxies",
		SubmittedAt: older,
	})
	require.NoError(t, err)

	_, err = repo.InsertFeedback(ctx, SurveyFeedback{
		Email:       "b@example.com",
		Preference:  "Mars",
		SubmittedAt: older.Add(time.Hour),
		ObjectID:    &mars.ID,
	})
	require.NoError(t, err)

	count, err := repo.GetFeedbackCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	recent, err := repo.ListRecentFeedback(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b@example.com", recent[0].Email)
	require.NotNil(t, recent[0].ObjectID)
	assert.Equal(t, mars.ID, *recent[0].ObjectID)
	assert.Nil(t, recent[1].ObjectID)
	assert.True(t, older.Equal(recent[1].SubmittedAt))

	missing := int64(987654)
	_, err = repo.InsertFeedback(ctx, SurveyFeedback{Email: "c@example.com", Preference: "x", ObjectID: &missing})
	assert.Error(t, err, "foreign key on object_id must be enforced")
}

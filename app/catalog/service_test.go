package catalog

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/lysyi3m/astrolearn/app/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *database.DB) {
	t.Helper()

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(database.NewObjectRepository(db), database.NewCategoryRepository(db)), db
}

func names(objects []ObjectSummary) []string {
	result := make([]string, 0, len(objects))
	for _, o := range objects {
		result = append(result, o.NameFR)
	}
	return result
}

func categoryIDByName(t *testing.T, s *Service, name CategoryName) int64 {
	t.Helper()

	categories, err := s.Categories(context.Background())
	require.NoError(t, err)
	for _, c := range categories {
		if c.Name == string(name) {
			return c.ID
		}
	}
	t.Fatalf("category %s not found", name)
	return 0
}

func TestListAll_NewestFirst(t *testing.T) {
	s, _ := newTestService(t)

	objects, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 8)

	assert.Equal(t, "Amas d'Hercule", objects[0].NameFR)
	assert.Equal(t, "Terre", objects[len(objects)-1].NameFR)
	for i := 1; i < len(objects); i++ {
		assert.GreaterOrEqual(t, objects[i-1].PublishDate, objects[i].PublishDate)
	}
}

func TestListAll_TruncatesDescriptions(t *testing.T) {
	s, _ := newTestService(t)

	objects, err := s.ListAll(context.Background())
	require.NoError(t, err)

	for _, o := range objects {
		assert.LessOrEqual(t, len([]rune(o.Description)), SummaryLength+3, o.NameFR)
	}

	detail, err := s.GetByID(context.Background(), objects[len(objects)-1].ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Greater(t, len([]rune(detail.Description)), SummaryLength)
	assert.True(t, strings.HasSuffix(objects[len(objects)-1].Description, "..."))
}

func TestFilterByCategory(t *testing.T) {
	s, _ := newTestService(t)

	planets, err := s.FilterByCategory(context.Background(), categoryIDByName(t, s, CategoryPlanet))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mars", "Terre"}, names(planets))

	none, err := s.FilterByCategory(context.Background(), 9999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSearch(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	found, err := s.Search(ctx, "nebuleuse")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nébuleuse d'Orion"}, names(found))

	found, err = s.Search(ctx, "  PLANÈTE ROUGE ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mars"}, names(found))

	found, err = s.Search(ctx, "messier 31")
	require.NoError(t, err)
	assert.Equal(t, []string{"Galaxie d'Andromède"}, names(found))

	found, err = s.Search(ctx, "zzz-no-match")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = s.Search(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptySearchTerm)
}

func TestGetByID(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	mars, err := database.NewObjectRepository(db).GetObjectByName(ctx, "Mars")
	require.NoError(t, err)
	require.NotNil(t, mars)

	detail, err := s.GetByID(ctx, mars.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Mars", detail.NameFR)
	assert.Equal(t, string(CategoryPlanet), detail.CategoryName)
	require.NotNil(t, detail.DistanceLY)
	assert.InDelta(t, 0.000024, *detail.DistanceLY, 1e-12)

	missing, err := s.GetByID(ctx, 424242)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategories(t *testing.T) {
	s, _ := newTestService(t)

	categories, err := s.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, len(Categories))

	seen := make(map[string]bool)
	for _, c := range categories {
		seen[c.Name] = true
	}
	for _, name := range Categories {
		assert.True(t, seen[string(name)], name)
	}
}

func TestBrowse(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	moonID := strconv.FormatInt(categoryIDByName(t, s, CategoryMoon), 10)

	tests := []struct {
		name     string
		term     string
		category string
		count    int
		filtered bool
	}{
		{"everything", "", "", 8, false},
		{"search wins over category", "andromede", moonID, 1, true},
		{"category filter", "", moonID, 1, true},
		{"non numeric category ignored", "", "moon", 8, true},
		{"blank term lists all", "   ", "", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, filtered, err := s.Browse(ctx, tt.term, tt.category)
			require.NoError(t, err)
			assert.Len(t, objects, tt.count)
			assert.Equal(t, tt.filtered, filtered)
		})
	}
}

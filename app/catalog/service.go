// Package catalog holds the read side of the celestial object catalog and the
// naming and classification rules used when objects are ingested.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/astrolearn/app/database"
)

var ErrEmptySearchTerm = errors.New("search term cannot be empty")

type Service struct {
	objects    database.ObjectRepository
	categories database.CategoryRepository
}

func NewService(objects database.ObjectRepository, categories database.CategoryRepository) *Service {
	return &Service{
		objects:    objects,
		categories: categories,
	}
}

// ListAll returns every catalog object, newest publish date first
func (s *Service) ListAll(ctx context.Context) ([]ObjectSummary, error) {
	rows, err := s.objects.ListObjects(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(rows), nil
}

// FilterByCategory returns the objects of one category, newest first
func (s *Service) FilterByCategory(ctx context.Context, categoryID int64) ([]ObjectSummary, error) {
	rows, err := s.objects.ListObjectsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return summarize(rows), nil
}

// Search returns the objects whose French name, scientific name or
// description contains term, ignoring case and accents.
func (s *Service) Search(ctx context.Context, term string) ([]ObjectSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}

	rows, err := s.objects.SearchObjects(ctx, term)
	if err != nil {
		return nil, err
	}
	return summarize(rows), nil
}

// GetByID returns nil, nil when the object does not exist
func (s *Service) GetByID(ctx context.Context, id int64) (*ObjectDetail, error) {
	obj, err := s.objects.GetObjectByID(ctx, id)
	if err != nil || obj == nil {
		return nil, err
	}

	return &ObjectDetail{
		ID:           obj.ID,
		NameFR:       obj.NameFR,
		NameSci:      obj.NameSci,
		Description:  obj.Description,
		DistanceLY:   obj.DistanceLY,
		ImageURL:     obj.ImageURL,
		PublishDate:  obj.PublishDate,
		CategoryID:   obj.CategoryID,
		CategoryName: obj.CategoryName,
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, Category{ID: row.ID, Name: row.Name})
	}
	return categories, nil
}

// Browse picks the listing for the catalog home page: a search when a term is
// given, otherwise a category filter when categoryParam is a number, otherwise
// the full catalog. The second result tells whether a search or filter was
// applied.
func (s *Service) Browse(ctx context.Context, searchTerm, categoryParam string) ([]ObjectSummary, bool, error) {
	searchTerm = strings.TrimSpace(searchTerm)
	categoryParam = strings.TrimSpace(categoryParam)

	if searchTerm != "" {
		objects, err := s.Search(ctx, searchTerm)
		return objects, true, err
	}

	if categoryID, ok := parseCategoryID(categoryParam); ok {
		objects, err := s.FilterByCategory(ctx, categoryID)
		return objects, true, err
	}

	objects, err := s.ListAll(ctx)
	return objects, categoryParam != "", err
}

func parseCategoryID(param string) (int64, bool) {
	if param == "" {
		return 0, false
	}
	for _, r := range param {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func summarize(rows []database.CelestialObject) []ObjectSummary {
	summaries := make([]ObjectSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ObjectSummary{
			ID:           row.ID,
			NameFR:       row.NameFR,
			NameSci:      row.NameSci,
			Description:  Truncate(row.Description, SummaryLength),
			ImageURL:     row.ImageURL,
			PublishDate:  row.PublishDate,
			CategoryName: row.CategoryName,
		})
	}
	return summaries
}

// Truncate shortens s to at most limit characters, marking the cut with "..."
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}

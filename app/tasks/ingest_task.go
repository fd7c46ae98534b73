package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/astrolearn/app/catalog"
	"github.com/lysyi3m/astrolearn/app/database"
	"github.com/lysyi3m/astrolearn/app/nasa"
)

// IngestTask copies NASA search results into the catalog, one page at a time.
// Objects are keyed by their French display name, so running the same search
// twice leaves the catalog unchanged apart from publish dates.
type IngestTask struct {
	Task
	SearchTerm string
	MaxPages   int
	AdminID    int64

	fetcher    PageFetcher
	objectRepo database.ObjectRepository
	catRepo    database.CategoryRepository
	assetHost  string
	now        func() time.Time

	count int
}

func NewIngestTask(searchTerm string, maxPages int, adminID int64, fetcher PageFetcher,
	objectRepo database.ObjectRepository, catRepo database.CategoryRepository,
	assetHost string, now func() time.Time) *IngestTask {
	if now == nil {
		now = time.Now
	}

	return &IngestTask{
		Task:       NewTask(TaskTypeIngest),
		SearchTerm: searchTerm,
		MaxPages:   maxPages,
		AdminID:    adminID,
		fetcher:    fetcher,
		objectRepo: objectRepo,
		catRepo:    catRepo,
		assetHost:  assetHost,
		now:        now,
	}
}

// Count is the number of objects upserted by the last Execute
func (t *IngestTask) Count() int {
	return t.count
}

func (t *IngestTask) Execute(ctx context.Context) error {
	t.count = 0

	categoryIDs, err := t.loadCategoryIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	publishDate := t.now().Format(database.PublishDateLayout)
	fetched := 0
	skipped := 0
	pages := 0

	for page := 1; page <= t.MaxPages; page++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		items, err := t.fetcher.FetchPage(ctx, t.SearchTerm, page)
		if err != nil {
			slog.Error("Failed to fetch page", "id", t.ID, "term", t.SearchTerm, "page", page, "error", err)
			return fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		if len(items) == 0 {
			slog.Debug("No more results", "id", t.ID, "term", t.SearchTerm, "page", page)
			break
		}

		pages++
		fetched += len(items)

		for _, item := range items {
			if err := t.storeItem(ctx, item, categoryIDs, publishDate); err != nil {
				skipped++
				slog.Warn("Failed to store item, skipping", "id", t.ID, "nasa_id", item.NasaID, "title", item.Title, "error", err)
				continue
			}
			t.count++
		}
	}

	slog.Info("Task completed",
		"type", "Ingest",
		"id", t.ID,
		"term", t.SearchTerm,
		"duration", t.GetDuration(),
		"pages", pages,
		"total", fetched,
		"skipped", skipped,
		"stored", t.count)

	return nil
}

func (t *IngestTask) loadCategoryIDs(ctx context.Context) (map[catalog.CategoryName]int64, error) {
	categories, err := t.catRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[catalog.CategoryName]int64, len(categories))
	for _, c := range categories {
		ids[catalog.CategoryName(c.Name)] = c.ID
	}
	return ids, nil
}

func (t *IngestTask) storeItem(ctx context.Context, item nasa.Item, categoryIDs map[catalog.CategoryName]int64, publishDate string) error {
	displayName := catalog.TranslateName(item.Title)

	keyword := catalog.DefaultKeyword
	if len(item.Keywords) > 0 {
		keyword = item.Keywords[0]
	}

	category := catalog.Classify(displayName, keyword)
	categoryID, ok := categoryIDs[category]
	if !ok {
		return fmt.Errorf("category %q not found", category)
	}

	_, err := t.objectRepo.UpsertObject(ctx, database.ObjectItem{
		NameFR:      displayName,
		NameSci:     item.Title,
		Description: item.Description,
		ImageURL:    nasa.ThumbnailURL(t.assetHost, item.NasaID),
		PublishDate: publishDate,
		CategoryID:  categoryID,
		ExternalID:  item.NasaID,
		EnteredBy:   t.AdminID,
	})
	return err
}

// Ingester runs ingestion tasks against a fixed set of collaborators
type Ingester struct {
	fetcher    PageFetcher
	objectRepo database.ObjectRepository
	catRepo    database.CategoryRepository
	assetHost  string
	now        func() time.Time
}

func NewIngester(fetcher PageFetcher, objectRepo database.ObjectRepository,
	catRepo database.CategoryRepository, assetHost string, now func() time.Time) *Ingester {
	return &Ingester{
		fetcher:    fetcher,
		objectRepo: objectRepo,
		catRepo:    catRepo,
		assetHost:  assetHost,
		now:        now,
	}
}

// Ingest fetches up to maxPages pages for searchTerm and upserts every item.
// It returns the number of stored objects. When a page cannot be fetched the
// run stops and the count so far is returned with the error.
func (i *Ingester) Ingest(ctx context.Context, searchTerm string, maxPages int, adminID int64) (int, error) {
	if searchTerm == "" {
		return 0, fmt.Errorf("search term cannot be empty")
	}
	if maxPages < 1 {
		return 0, fmt.Errorf("max pages must be 1 or greater, got %d", maxPages)
	}

	task := NewIngestTask(searchTerm, maxPages, adminID, i.fetcher, i.objectRepo, i.catRepo, i.assetHost, i.now)
	err := runTask(ctx, task)
	return task.Count(), err
}

// runTask starts the task clock, executes the task and logs a failure with the
// task identity.
func runTask(ctx context.Context, task TaskInterface) error {
	task.Start()

	if err := task.Execute(ctx); err != nil {
		slog.Error("Task execution failed",
			"type", string(task.GetType()),
			"id", task.GetID(),
			"duration", task.GetDuration(),
			"error", err)
		return err
	}
	return nil
}

package tasks

import (
	"context"

	"github.com/lysyi3m/astrolearn/app/nasa"
)

// PageFetcher returns one page of search results. An empty page with a nil
// error marks the end of the results.
type PageFetcher interface {
	FetchPage(ctx context.Context, searchTerm string, page int) ([]nasa.Item, error)
}

var (
	_ PageFetcher   = (*nasa.Client)(nil)
	_ TaskInterface = (*IngestTask)(nil)
)

// Package nasa reads search results from the NASA Image and Video Library.
package nasa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/astrolearn/app/backoff"
	"github.com/tidwall/gjson"
)

type Client struct {
	httpClient *http.Client
	searchURL  string
	userAgent  string
	timeout    time.Duration
	policy     backoff.Policy
}

func NewClient(httpClient *http.Client, searchURL, userAgent string, timeout time.Duration, policy backoff.Policy) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		searchURL:  searchURL,
		userAgent:  userAgent,
		timeout:    timeout,
		policy:     policy,
	}
}

// FetchPage returns the items of one result page. An empty slice with a nil
// error means there are no more results. Every failure is retried by the
// client's policy; the last one is returned once attempts are exhausted.
func (c *Client) FetchPage(ctx context.Context, searchTerm string, page int) ([]Item, error) {
	if searchTerm == "" {
		return nil, fmt.Errorf("search term cannot be empty")
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be 1 or greater, got %d", page)
	}

	name := fmt.Sprintf("nasa search %q page %d", searchTerm, page)
	return backoff.DoValue(ctx, c.policy, name, func(ctx context.Context) ([]Item, error) {
		return c.fetchPage(ctx, searchTerm, page)
	})
}

func (c *Client) fetchPage(ctx context.Context, searchTerm string, page int) ([]Item, error) {
	data, err := c.fetch(ctx, c.pageURL(searchTerm, page))
	if err != nil {
		return nil, err
	}

	items, err := ParseSearchResponse(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("Search page fetched", "term", searchTerm, "page", page, "items", len(items))
	return items, nil
}

func (c *Client) pageURL(searchTerm string, page int) string {
	query := url.Values{}
	query.Set("q", searchTerm)
	query.Set("media_type", "image")
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(PageSize))

	return c.searchURL + "?" + query.Encode()
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Search API returned an error status", "status", resp.StatusCode, "url", url)
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// ParseSearchResponse extracts the items of a search response body shaped
// {"collection": {"items": [{"data": [{...}]}]}}. Missing metadata fields get
// placeholder values; a body without items yields an empty slice.
func ParseSearchResponse(data []byte) ([]Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed search response: invalid JSON")
	}

	results := gjson.GetBytes(data, "collection.items")
	if !results.Exists() || results.Type == gjson.Null {
		return []Item{}, nil
	}
	if !results.IsArray() {
		return nil, fmt.Errorf("malformed search response: collection.items is not an array")
	}

	entries := results.Array()
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, parseItem(entry.Get("data.0")))
	}

	return items, nil
}

func parseItem(metadata gjson.Result) Item {
	item := Item{
		NasaID:      stringOr(metadata.Get("nasa_id"), UnknownID),
		Title:       stringOr(metadata.Get("title"), UnknownTitle),
		Description: stringOr(metadata.Get("description"), UnknownDescription),
		Keywords:    []string{},
	}

	for _, keyword := range metadata.Get("keywords").Array() {
		if k := keyword.String(); k != "" {
			item.Keywords = append(item.Keywords, k)
		}
	}

	return item
}

// stringOr returns the trimmed value, or fallback when it is missing, null or blank
func stringOr(value gjson.Result, fallback string) string {
	if !value.Exists() || value.Type == gjson.Null {
		return fallback
	}
	if s := strings.TrimSpace(value.String()); s != "" {
		return s
	}
	return fallback
}

// ThumbnailURL derives the thumbnail location of a NASA asset from its id
func ThumbnailURL(assetHost, nasaID string) string {
	if assetHost == "" {
		assetHost = DefaultAssetHost
	}
	return fmt.Sprintf("https://%s/image/%s/%s~thumb.jpg", assetHost, nasaID, nasaID)
}

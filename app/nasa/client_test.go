package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/astrolearn/app/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `{
  "collection": {
    "items": [
      {"data": [{"nasa_id": "PIA00407", "title": "Mars", "description": "Red planet", "keywords": ["planet", "Mars"]}]},
      {"data": [{"nasa_id": "PIA00405", "title": "Moon"}]},
      {"data": []}
    ]
  }
}`

func testPolicy() backoff.Policy {
	return backoff.Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, Multiplier: 2}
}

func TestFetchPage_RequestAndParsing(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":          q.Get("q"),
			"media_type": q.Get("media_type"),
			"page":       q.Get("page"),
			"page_size":  q.Get("page_size"),
		}
		assert.Equal(t, "AstroLearn/test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "AstroLearn/test", time.Second, testPolicy())

	items, err := client.FetchPage(context.Background(), "solar system", 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"q":          "solar system",
		"media_type": "image",
		"page":       "2",
		"page_size":  "100",
	}, gotQuery)

	require.Len(t, items, 3)
	assert.Equal(t, Item{NasaID: "PIA00407", Title: "Mars", Description: "Red planet", Keywords: []string{"planet", "Mars"}}, items[0])
	assert.Equal(t, Item{NasaID: "PIA00405", Title: "Moon", Description: UnknownDescription, Keywords: []string{}}, items[1])
	assert.Equal(t, Item{NasaID: UnknownID, Title: UnknownTitle, Description: UnknownDescription, Keywords: []string{}}, items[2])
}

func TestFetchPage_EmptyPage(t *testing.T) {
	for _, body := range []string{`{"collection": {"items": []}}`, `{"collection": {"items": null}}`, `{"collection": {}}`, `{}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewClient(server.Client(), server.URL, "", time.Second, testPolicy())
		items, err := client.FetchPage(context.Background(), "nothing", 1)

		require.NoError(t, err, body)
		assert.Empty(t, items, body)
		server.Close()
	}
}

func TestFetchPage_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "", time.Second, testPolicy())
	items, err := client.FetchPage(context.Background(), "mars", 1)

	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchPage_GivesUpAfterMaxAttempts(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"collection":`)) }},
		{"items not array", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"collection":{"items":"x"}}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			defer server.Close()

			client := NewClient(server.Client(), server.URL, "", time.Second, testPolicy())
			_, err := client.FetchPage(context.Background(), "mars", 1)

			assert.Error(t, err)
			assert.Equal(t, int32(5), calls.Load())
		})
	}
}

func TestFetchPage_InvalidArguments(t *testing.T) {
	client := NewClient(nil, "http://127.0.0.1:1", "", time.Second, testPolicy())

	_, err := client.FetchPage(context.Background(), "", 1)
	assert.Error(t, err)

	_, err = client.FetchPage(context.Background(), "mars", 0)
	assert.Error(t, err)
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t,
		"https://images-assets.nasa.gov/image/PIA00407/PIA00407~thumb.jpg",
		ThumbnailURL("images-assets.nasa.gov", "PIA00407"))
	assert.Equal(t,
		"https://images-assets.nasa.gov/image/X/X~thumb.jpg",
		ThumbnailURL("", "X"))
}

func TestParseSearchResponse_BlankFields(t *testing.T) {
	items, err := ParseSearchResponse([]byte(`{"collection": {"items": [
		{"data": [{"nasa_id": "  ", "title": "", "description": " \n "}]},
		{"data": [{"nasa_id": "PIA1", "title": "  Saturn ", "description": null}]}
	]}}`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{NasaID: UnknownID, Title: UnknownTitle, Description: UnknownDescription, Keywords: []string{}}, items[0])
	assert.Equal(t, Item{NasaID: "PIA1", Title: "Saturn", Description: UnknownDescription, Keywords: []string{}}, items[1])
}

func TestParseSearchResponse_NullItemsEndsResults(t *testing.T) {
	items, err := ParseSearchResponse([]byte(`{"collection":{"items":null}}`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

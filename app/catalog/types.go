package catalog

// SummaryLength is the number of description characters kept in listings
const SummaryLength = 150

// ObjectSummary is the listing projection of a catalog object
type ObjectSummary struct {
	ID           int64   `json:"id"`
	NameFR       string  `json:"name_fr"`
	NameSci      *string `json:"name_sci"`
	Description  string  `json:"description"`
	ImageURL     *string `json:"image_url"`
	PublishDate  string  `json:"publish_date"`
	CategoryName string  `json:"category"`
}

// ObjectDetail is the full projection used by detail pages
type ObjectDetail struct {
	ID           int64    `json:"id"`
	NameFR       string   `json:"name_fr"`
	NameSci      *string  `json:"name_sci"`
	Description  string   `json:"description"`
	DistanceLY   *float64 `json:"distance_ly"`
	ImageURL     *string  `json:"image_url"`
	PublishDate  string   `json:"publish_date"`
	CategoryID   int64    `json:"category_id"`
	CategoryName string   `json:"category"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

package nasa

const (
	// PageSize is the number of results requested per page
	PageSize = 100

	DefaultSearchURL = "https://images-api.nasa.gov/search"
	DefaultAssetHost = "images-assets.nasa.gov"

	UnknownID          = "N/A"
	UnknownTitle       = "Unknown Title"
	UnknownDescription = "No description available"
)

// Item is the metadata of one search result
type Item struct {
	NasaID      string
	Title       string
	Description string
	Keywords    []string
}

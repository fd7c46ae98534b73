package cfg

import "time"

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// External search API
	NasaSearchURL    string
	NasaAssetHost    string
	FetchTimeout     int
	IngestSearchTerm string
	IngestMaxPages   int
	RetryAttempts    int
	RetryBaseDelay   int

	// Administration
	AdminHandle   string
	AdminPassword string
	SessionSecret string
	SessionTTL    int

	// Visitor features
	SurveyFormURL string
	GeminiAPIKey  string
	ChatbotModel  string
}

func (c *Cfg) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Cfg) GetRetryBaseDelay() time.Duration {
	if c.RetryBaseDelay <= 0 {
		return time.Second
	}
	return time.Duration(c.RetryBaseDelay) * time.Second
}

func (c *Cfg) GetSessionTTL() time.Duration {
	if c.SessionTTL <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.SessionTTL) * time.Second
}

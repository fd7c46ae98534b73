package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"Optional dotenv file loaded before parsing"`

	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./astrolearn.db" description:"SQLite database file"`

	// Application configuration
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"AstroLearn/1.0" description:"User agent string for outgoing HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Paris)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	// External search API
	NasaSearchURL    string `long:"nasa-search-url" env:"NASA_SEARCH_URL" default:"https://images-api.nasa.gov/search" description:"NASA Image and Video Library search endpoint"`
	NasaAssetHost    string `long:"nasa-asset-host" env:"NASA_ASSET_HOST" default:"images-assets.nasa.gov" description:"Host serving NASA image thumbnails"`
	FetchTimeout     int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Per-request timeout for the search API in seconds"`
	IngestSearchTerm string `long:"ingest-search-term" env:"INGEST_SEARCH_TERM" default:"solar system" description:"Search term used by the admin ingestion"`
	IngestMaxPages   int    `long:"ingest-max-pages" env:"INGEST_MAX_PAGES" default:"5" description:"Maximum number of result pages fetched per ingestion"`
	RetryAttempts    int    `long:"retry-attempts" env:"RETRY_ATTEMPTS" default:"5" description:"Attempts per outgoing API call"`
	RetryBaseDelay   int    `long:"retry-base-delay" env:"RETRY_BASE_DELAY" default:"1" description:"Initial retry delay in seconds, doubled on each retry"`

	// Administration
	AdminHandle   string `long:"admin-handle" env:"ADMIN_HANDLE" default:"admin" description:"Handle of the seeded administrator account"`
	AdminPassword string `long:"admin-password" env:"ADMIN_PASSWORD" description:"Password of the seeded administrator account (seeding skipped when empty)"`
	SessionSecret string `long:"session-secret" env:"SESSION_SECRET" description:"Secret used to sign admin session tokens (required)" required:"true"`
	SessionTTL    int    `long:"session-ttl" env:"SESSION_TTL" default:"43200" description:"Admin session lifetime in seconds"`

	// Visitor features
	SurveyFormURL string `long:"survey-form-url" env:"SURVEY_FORM_URL" default:"https://tally.so/r/jaZGVR" description:"External survey form link"`
	GeminiAPIKey  string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for the chatbot (chatbot disabled when empty)"`
	ChatbotModel  string `long:"chatbot-model" env:"CHATBOT_MODEL" default:"gemini-2.5-flash" description:"Model used by the chatbot"`
}

// Load reads the dotenv file (if any), then command-line flags and environment
// variables. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs is Load with explicit arguments; nil means os.Args.
func LoadArgs(args []string) (*Cfg, error) {
	if err := loadEnvFile(args); err != nil {
		return nil, err
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		Port:             raw.Port,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
		NasaSearchURL:    raw.NasaSearchURL,
		NasaAssetHost:    raw.NasaAssetHost,
		FetchTimeout:     raw.FetchTimeout,
		IngestSearchTerm: raw.IngestSearchTerm,
		IngestMaxPages:   raw.IngestMaxPages,
		RetryAttempts:    raw.RetryAttempts,
		RetryBaseDelay:   raw.RetryBaseDelay,
		AdminHandle:      raw.AdminHandle,
		AdminPassword:    raw.AdminPassword,
		SessionSecret:    raw.SessionSecret,
		SessionTTL:       raw.SessionTTL,
		SurveyFormURL:    raw.SurveyFormURL,
		GeminiAPIKey:     raw.GeminiAPIKey,
		ChatbotModel:     raw.ChatbotModel,
	}

	if cfg.IngestMaxPages < 1 {
		return nil, fmt.Errorf("ingest-max-pages must be at least 1, got %d", cfg.IngestMaxPages)
	}
	if cfg.RetryAttempts < 1 {
		return nil, fmt.Errorf("retry-attempts must be at least 1, got %d", cfg.RetryAttempts)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// loadEnvFile populates the environment from ENV_FILE (or .env). Variables that
// are already set win over the file.
func loadEnvFile(args []string) error {
	path := envFileFromArgs(args)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func envFileFromArgs(args []string) string {
	var raw struct {
		EnvFile string `long:"env-file" env:"ENV_FILE" default:".env"`
	}
	p := flags.NewParser(&raw, flags.IgnoreUnknown)
	if args == nil {
		_, _ = p.Parse()
	} else {
		_, _ = p.ParseArgs(args)
	}
	return raw.EnvFile
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}

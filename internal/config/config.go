package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the site assessment service.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the dashboard API server.
// - MonitorPort: The port for the health/metrics monitoring server.
// - ProviderType: The imagery catalog provider to use (earthsearch, planetary).
// - APIKey: The API key for the catalog, when the provider takes one.
// - CatalogURL: Optional catalog endpoint override.
// - Collection: The searched product collection.
// - CloudCoverMax: The exclusive cloud cover ceiling in percent.
// - RequestTimeout: The per-analysis deadline applied by the caller.
// - CacheTTL: How long fetched band assets and results stay cached.
// - OutputDir: Directory preview images are written to.
// - SitesFile: Optional YAML site registry; built-in defaults when empty.
// - Database: Optional PostgreSQL settings for the run history.
type Config struct {
	Env            string
	Port           int
	MonitorPort    int
	ProviderType   string
	APIKey         string
	CatalogURL     string
	Collection     string
	CloudCoverMax  float64
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	OutputDir      string
	SitesFile      string
	Database       PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a
// PostgreSQL database. History falls back to in-memory storage when Host is
// empty.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled reports whether a database was configured at all.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment and returns a Config
// struct, panicking on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	requestTimeout, err := time.ParseDuration(setDefaultEnv("SEASCAN_REQUEST_TIMEOUT", "5m"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("SEASCAN_CACHE_TTL", "30m"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	port, err := strconv.Atoi(setDefaultEnv("SEASCAN_PORT", "8080"))
	if err != nil {
		panic("failed to parse API server port from configuration")
	}

	monitorPort, err := strconv.Atoi(setDefaultEnv("SEASCAN_MONITOR_PORT", "9090"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	cloudCoverMax, err := strconv.ParseFloat(setDefaultEnv("SEASCAN_CLOUD_COVER_MAX", "10"), 64)
	if err != nil {
		panic("failed to parse cloud cover threshold from configuration")
	}

	return &Config{
		Env:            setDefaultEnv("SEASCAN_ENV", "production"),
		Port:           port,
		MonitorPort:    monitorPort,
		ProviderType:   setDefaultEnv("SEASCAN_PROVIDER_TYPE", "earthsearch"),
		APIKey:         os.Getenv("SEASCAN_PROVIDER_KEY"),
		CatalogURL:     os.Getenv("SEASCAN_CATALOG_URL"),
		Collection:     setDefaultEnv("SEASCAN_COLLECTION", "sentinel-2-l2a"),
		CloudCoverMax:  cloudCoverMax,
		RequestTimeout: requestTimeout,
		CacheTTL:       cacheTTL,
		OutputDir:      setDefaultEnv("SEASCAN_OUTPUT_DIR", "previews"),
		SitesFile:      os.Getenv("SEASCAN_SITES_FILE"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}

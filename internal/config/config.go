package config

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newshound.
type Config struct {
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ExtractConfig controls the extraction engine.
type ExtractConfig struct {
	// SitesPath is the site catalogue JSON file.
	SitesPath string `mapstructure:"sites_path" yaml:"sites_path"`

	// Concurrency is the number of extraction workers for batch runs.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`

	// DefaultLocale disambiguates numeric dates (day-first vs
	// month-first) for sites that carry no locale of their own.
	// "dmy" or "mdy"; day-first when empty.
	DefaultLocale string `mapstructure:"default_locale" yaml:"default_locale"`

	// DefaultTimezone is assumed for zone-less dates. UTC when empty.
	DefaultTimezone string `mapstructure:"default_timezone" yaml:"default_timezone"`

	// Field length limits, in runes. Zero means unlimited.
	TitleMaxLen  int `mapstructure:"title_max_len"  yaml:"title_max_len"`
	AuthorMaxLen int `mapstructure:"author_max_len" yaml:"author_max_len"`
	BodyMaxLen   int `mapstructure:"body_max_len"   yaml:"body_max_len"`
}

// StorageConfig selects and configures the record store.
type StorageConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // memory, sqlite, mongodb

	// Path is the database file for the sqlite backend.
	Path string `mapstructure:"path" yaml:"path"`

	// URI, Database and Collection configure the mongodb backend.
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			SitesPath:       "configs/sources.json",
			Concurrency:     8,
			DefaultLocale:   "dmy",
			DefaultTimezone: "UTC",
			TitleMaxLen:     512,
			AuthorMaxLen:    256,
			BodyMaxLen:      0,
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			Path:       "./newshound.db",
			URI:        "mongodb://localhost:27017",
			Database:   "newshound",
			Collection: "articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

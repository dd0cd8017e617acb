package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newshound")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newshound"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("extract.sites_path", cfg.Extract.SitesPath)
	v.SetDefault("extract.concurrency", cfg.Extract.Concurrency)
	v.SetDefault("extract.default_locale", cfg.Extract.DefaultLocale)
	v.SetDefault("extract.default_timezone", cfg.Extract.DefaultTimezone)
	v.SetDefault("extract.title_max_len", cfg.Extract.TitleMaxLen)
	v.SetDefault("extract.author_max_len", cfg.Extract.AuthorMaxLen)
	v.SetDefault("extract.body_max_len", cfg.Extract.BodyMaxLen)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}

// LoadSites reads the site catalogue from a JSON file mapping source ID
// to SiteConfig. Disabled sources are skipped; every loaded source is
// validated.
func LoadSites(path string, logger *slog.Logger) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site catalogue: %w", err)
	}
	return ParseSites(data, logger)
}

// ParseSites builds a catalogue from raw JSON catalogue bytes.
func ParseSites(data []byte, logger *slog.Logger) (*Catalogue, error) {
	var raw map[string]*SiteConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse site catalogue: %w", err)
	}

	sites := make(map[string]*SiteConfig, len(raw))
	for id, site := range raw {
		if site == nil {
			continue
		}
		site.ID = id
		if !site.Enabled {
			logger.Debug("skipping disabled source", "source", id)
			continue
		}
		if err := ValidateSite(site); err != nil {
			return nil, fmt.Errorf("source %q: %w", id, err)
		}
		sites[id] = site
		logger.Debug("loaded source", "source", id, "name", site.Name, "fields", len(site.Fields))
	}

	logger.Info("site catalogue loaded", "sources", len(sites))
	return NewCatalogue(sites), nil
}

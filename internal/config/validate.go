package config

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// Validate checks the root configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Extract.Concurrency < 1 {
		return fmt.Errorf("extract.concurrency must be >= 1, got %d", cfg.Extract.Concurrency)
	}
	if cfg.Extract.Concurrency > 1000 {
		return fmt.Errorf("extract.concurrency must be <= 1000, got %d", cfg.Extract.Concurrency)
	}
	if err := validateLocale(cfg.Extract.DefaultLocale); err != nil {
		return fmt.Errorf("extract.default_locale: %w", err)
	}
	if cfg.Extract.DefaultTimezone != "" {
		if _, err := time.LoadLocation(cfg.Extract.DefaultTimezone); err != nil {
			return fmt.Errorf("extract.default_timezone %q: %w", cfg.Extract.DefaultTimezone, err)
		}
	}
	if cfg.Extract.TitleMaxLen < 0 || cfg.Extract.AuthorMaxLen < 0 || cfg.Extract.BodyMaxLen < 0 {
		return fmt.Errorf("field length limits must be >= 0")
	}

	validStorageTypes := map[string]bool{
		"memory": true, "sqlite": true, "mongodb": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: memory, sqlite, mongodb)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "sqlite" && cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for sqlite storage")
	}
	if cfg.Storage.Type == "mongodb" {
		if cfg.Storage.URI == "" {
			return fmt.Errorf("storage.uri is required for mongodb storage")
		}
		if cfg.Storage.Database == "" || cfg.Storage.Collection == "" {
			return fmt.Errorf("storage.database and storage.collection are required for mongodb storage")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateSite checks a single site configuration.
func ValidateSite(site *SiteConfig) error {
	if len(site.Fields) == 0 {
		return fmt.Errorf("no fields configured")
	}

	for field, rules := range site.Fields {
		if len(rules) == 0 {
			return fmt.Errorf("field %q has no selector rules", field)
		}
		for i, rule := range rules {
			if rule.Expression == "" {
				return fmt.Errorf("field %q rule %d has an empty expression", field, i)
			}
			switch rule.Kind {
			case "", KindCSS, KindXPath:
			case KindRegex:
				if _, err := regexp.Compile(rule.Expression); err != nil {
					return fmt.Errorf("field %q rule %d: invalid regex: %w", field, i, err)
				}
			default:
				return fmt.Errorf("field %q rule %d has unknown kind %q", field, i, rule.Kind)
			}
		}
	}

	if site.URLPatterns.Article != "" {
		if _, err := regexp.Compile(site.URLPatterns.Article); err != nil {
			return fmt.Errorf("url_patterns.article: invalid regex: %w", err)
		}
	}

	if err := validateLocale(site.Locale); err != nil {
		return err
	}
	if site.Timezone != "" {
		if _, err := time.LoadLocation(site.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", site.Timezone, err)
		}
	}

	return nil
}

func validateLocale(locale string) error {
	switch locale {
	case "", "dmy", "mdy":
		return nil
	default:
		return fmt.Errorf("locale must be 'dmy' or 'mdy', got %q", locale)
	}
}

// ValidateURL checks if a URL string is a well-formed absolute URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

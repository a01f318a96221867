package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/varoOP/reelshelf/internal/domain"
)

// Load reads the configuration from the global viper instance, which is fed
// by the config file (config.yaml or $HOME/.reelshelf.yaml) and REELSHELF_*
// environment variables.
func Load() (*domain.Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom maps v onto a domain.Config, applying defaults and validating.
func LoadFrom(v *viper.Viper) (*domain.Config, error) {
	SetDefaults(v)

	cfg := &domain.Config{
		TMDBToken:      strings.TrimSpace(v.GetString("tmdb_token")),
		TMDBBaseURL:    strings.TrimRight(v.GetString("tmdb_base_url"), "/"),
		ImageBaseURL:   strings.TrimRight(v.GetString("image_base_url"), "/"),
		Language:       v.GetString("language"),
		Timeout:        v.GetDuration("timeout"),
		RateLimit:      v.GetFloat64("rate_limit"),
		DiscoverSeed:   v.GetInt64("discover_seed"),
		ImagesPrefetch: v.GetBool("images_prefetch"),
		DBDir:          v.GetString("db_dir"),
		LogLevel:       v.GetString("log_level"),
		LogFile:        v.GetString("log_file"),
	}

	if cfg.TMDBToken == "" {
		return nil, fmt.Errorf("tmdb_token is required (set via config.yaml or REELSHELF_TMDB_TOKEN environment variable)")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout: %s (must be positive)", v.GetString("timeout"))
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("invalid rate_limit: %v (must be zero or positive)", cfg.RateLimit)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log_level: %s", cfg.LogLevel)
	}

	return cfg, nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("tmdb_base_url", domain.DefaultTMDBBaseURL)
	v.SetDefault("image_base_url", domain.DefaultImageBaseURL)
	v.SetDefault("language", domain.DefaultLanguage)
	v.SetDefault("timeout", domain.DefaultTimeout)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("images_prefetch", false)
	v.SetDefault("db_dir", ".")
	v.SetDefault("log_level", "info")
}

package domain

import "time"

const (
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultLanguage     = "en-US"
	DefaultTimeout      = 20 * time.Second
)

type Config struct {
	TMDBToken      string        `mapstructure:"tmdb_token"`
	TMDBBaseURL    string        `mapstructure:"tmdb_base_url"`
	ImageBaseURL   string        `mapstructure:"image_base_url"`
	Language       string        `mapstructure:"language"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	DiscoverSeed   int64         `mapstructure:"discover_seed"`
	ImagesPrefetch bool          `mapstructure:"images_prefetch"`
	DBDir          string        `mapstructure:"db_dir"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
}

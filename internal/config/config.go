package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rcski77/aes-results-scraping/internal/source/aes"
	"github.com/rcski77/aes-results-scraping/internal/source/sportwrench"
	"github.com/rcski77/aes-results-scraping/internal/source/vbschedule"
)

const EnvPrefix = "AES_RESULTS"

// ErrInvalidConfig marks a configuration that cannot be run
var ErrInvalidConfig = errors.New("invalid configuration")

// Sources lists the accepted event source names
var Sources = []string{
	aes.Name,
	sportwrench.Name,
	sportwrench.RenderedName,
	sportwrench.GraphQLName,
	vbschedule.Name,
}

// Event is one configured event. Events are merged in the order listed.
type Event struct {
	Source    string `mapstructure:"source"`
	ID        string `mapstructure:"id"`
	ShiftYear bool   `mapstructure:"shift_year"`
}

// Roster selects the Jacker tournament used as the allow-list
type Roster struct {
	Enabled  bool   `mapstructure:"enabled"`
	JackerID string `mapstructure:"jacker_id"`
	Cookie   string `mapstructure:"cookie"`
}

// Output names the files a run writes
type Output struct {
	Dir            string `mapstructure:"dir"`
	WideFile       string `mapstructure:"wide_file"`
	UnfilteredFile string `mapstructure:"unfiltered_file"`
	LongFile       string `mapstructure:"long_file"`
	Header         bool   `mapstructure:"header"`
	IncludeKey     bool   `mapstructure:"include_key"`
	SQLite         string `mapstructure:"sqlite"`
}

// Fetch tunes the HTTP clients and the worker pool
type Fetch struct {
	Workers           int           `mapstructure:"workers"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RenderTimeout     time.Duration `mapstructure:"render_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxRetries        int           `mapstructure:"max_retries"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// Log configures the logger
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Config is the complete run configuration
type Config struct {
	Events []Event `mapstructure:"events"`
	Roster Roster  `mapstructure:"roster"`
	Output Output  `mapstructure:"output"`
	Fetch  Fetch   `mapstructure:"fetch"`
	Log    Log     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("roster.enabled", false)
	v.SetDefault("roster.jacker_id", "")
	v.SetDefault("roster.cookie", "")

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.wide_file", "combined_years_all_event_standings.csv")
	v.SetDefault("output.unfiltered_file", "nonfiltered_all_event_standings.csv")
	v.SetDefault("output.long_file", "raw_nonpivoted_data.csv")
	v.SetDefault("output.header", true)
	v.SetDefault("output.include_key", true)
	v.SetDefault("output.sqlite", "")

	v.SetDefault("fetch.workers", 4)
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.render_timeout", "20s")
	v.SetDefault("fetch.requests_per_second", 4.0)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads the run file at path. With an empty path, aes-results.yaml in
// the working directory is used when present and defaults otherwise.
func Load(path string) (*Config, error) {
	loadDotEnv(path)

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("aes-results")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads .env files without overriding variables already set.
// Missing files are ignored.
func loadDotEnv(configPath string) {
	if configPath != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(configPath), ".env"))
	}
	_ = godotenv.Load(".env")
}

// Validate checks the settings a run depends on and normalizes event
// sources and ids.
func (c *Config) Validate() error {
	for i := range c.Events {
		e := &c.Events[i]
		e.Source = strings.ToLower(strings.TrimSpace(e.Source))
		e.ID = strings.TrimSpace(e.ID)

		if !IsSource(e.Source) {
			return fmt.Errorf("%w: event %d has unknown source %q (expected one of %s)",
				ErrInvalidConfig, i+1, e.Source, strings.Join(Sources, ", "))
		}
		if e.ID == "" {
			return fmt.Errorf("%w: event %d has no id", ErrInvalidConfig, i+1)
		}
	}

	if c.Roster.Enabled && strings.TrimSpace(c.Roster.JackerID) == "" {
		return fmt.Errorf("%w: roster.enabled requires roster.jacker_id", ErrInvalidConfig)
	}

	if c.Fetch.Workers < 1 {
		return fmt.Errorf("%w: fetch.workers must be at least 1", ErrInvalidConfig)
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("%w: fetch.max_retries must not be negative", ErrInvalidConfig)
	}
	if c.Output.WideFile == "" || c.Output.LongFile == "" {
		return fmt.Errorf("%w: output file names must not be empty", ErrInvalidConfig)
	}
	return nil
}

// IsSource reports whether name is a known event source
func IsSource(name string) bool {
	for _, s := range Sources {
		if s == name {
			return true
		}
	}
	return false
}

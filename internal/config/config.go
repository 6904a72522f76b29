package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tanbq/tweetpdf/internal/utils/errs"
	"gopkg.in/yaml.v3"
)

const (
	defaultLogMode       = "prod"
	defaultConcurrency   = 4
	defaultDownloadDir   = ".tweetpdf_cache"
	defaultFontDir       = "fonts"
	defaultMediaTimeout  = 20 * time.Second
	defaultFontTimeout   = 30 * time.Second
	defaultMaxMediaBytes = 10 << 20
)

var defaultAllowedHosts = []string{"pbs.twimg.com", "video.twimg.com"}

// Config is the runtime configuration for the exporter. Values come from
// defaults, then an optional YAML file, then environment variables; CLI flags
// override on top in cmd.
type Config struct {
	LogMode       string        `yaml:"log_mode"`
	Concurrency   int           `yaml:"concurrency"`
	AllowedHosts  []string      `yaml:"allowed_hosts"`
	DownloadDir   string        `yaml:"download_dir"`
	FontDir       string        `yaml:"font_dir"`
	MediaTimeout  time.Duration `yaml:"media_timeout"`
	FontTimeout   time.Duration `yaml:"font_timeout"`
	MaxMediaBytes int64         `yaml:"max_media_bytes"`
}

func Default() Config {
	return Config{
		LogMode:       defaultLogMode,
		Concurrency:   defaultConcurrency,
		AllowedHosts:  append([]string(nil), defaultAllowedHosts...),
		DownloadDir:   defaultDownloadDir,
		FontDir:       defaultFontDir,
		MediaTimeout:  defaultMediaTimeout,
		FontTimeout:   defaultFontTimeout,
		MaxMediaBytes: defaultMaxMediaBytes,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file at
// path, and environment variables (a .env file is honored when present).
// A missing or empty YAML file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if len(fileData) > 0 {
			if err := yaml.Unmarshal(fileData, &cfg); err != nil {
				return nil, fmt.Errorf("parse yaml: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win either way.
	_ = godotenv.Load(".env")
	if mode := os.Getenv("LOG_MODE"); mode != "" {
		cfg.LogMode = mode
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	if c.LogMode == "" {
		c.LogMode = defaultLogMode
	}
	if c.DownloadDir == "" {
		c.DownloadDir = defaultDownloadDir
	}
	if c.FontDir == "" {
		c.FontDir = defaultFontDir
	}
	if c.MediaTimeout <= 0 {
		c.MediaTimeout = defaultMediaTimeout
	}
	if c.FontTimeout <= 0 {
		c.FontTimeout = defaultFontTimeout
	}
	if c.MaxMediaBytes <= 0 {
		c.MaxMediaBytes = defaultMaxMediaBytes
	}
	c.AllowedHosts = NormalizeHosts(c.AllowedHosts)
	if len(c.AllowedHosts) == 0 {
		c.AllowedHosts = append([]string(nil), defaultAllowedHosts...)
	}
}

func (c *Config) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidConcurrency, c.Concurrency)
	}

	return nil
}

// NormalizeHosts lowercases, trims, and deduplicates a host list, dropping
// blank entries.
func NormalizeHosts(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	normalized := make([]string, 0, len(in))
	for _, host := range in {
		h := strings.ToLower(strings.TrimSpace(host))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		normalized = append(normalized, h)
	}
	return normalized
}

// SplitHosts parses the comma-separated form used by the --allow-hosts flag.
func SplitHosts(raw string) []string {
	return NormalizeHosts(strings.Split(raw, ","))
}

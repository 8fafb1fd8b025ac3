// Package config loads and validates tracker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/realmeupdater/realme-updates-tracker/internal/gitsync"
	"github.com/realmeupdater/realme-updates-tracker/internal/notify"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage/gcs"
	"github.com/realmeupdater/realme-updates-tracker/internal/storage/local"
)

// Config captures all tracker configuration knobs loaded via Viper.
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Regions  []RegionConfig `mapstructure:"regions"`
	Data     DataConfig     `mapstructure:"data"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Telegram notify.Config  `mapstructure:"telegram"`
	Git      gitsync.Config `mapstructure:"git"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SiteConfig points at the vendor support site.
type SiteConfig struct {
	// BaseURL is the vendor site root; region pages live at
	// <base>/<code>/<page>.
	BaseURL string `mapstructure:"base_url"`
	Page    string `mapstructure:"page"`
}

// RegionConfig maps a site region code to its persisted label. Order here is
// run order, and therefore merged-document order.
type RegionConfig struct {
	Code  string `mapstructure:"code"`
	Label string `mapstructure:"label"`
}

// DataConfig locates the git-tracked data directory.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// HTTPConfig configures the plain page fetcher.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// HeadlessConfig configures the browser-rendering fallback.
type HeadlessConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	NavTimeoutSeconds int  `mapstructure:"nav_timeout_seconds"`
}

// MirrorConfig configures the optional secondary copy of merged documents.
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Backend selects the mirror store: "gcs" or "local".
	Backend string       `mapstructure:"backend"`
	GCS     gcs.Config   `mapstructure:"gcs"`
	Local   local.Config `mapstructure:"local"`
}

// MetricsConfig configures the optional end-of-run Pushgateway push.
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://www.realme.com")
	v.SetDefault("site.page", "support/software-update")
	v.SetDefault("regions", []map[string]string{
		{"code": "in", "label": "india"},
		{"code": "eu", "label": "europe"},
		{"code": "ru", "label": "russia"},
		{"code": "global", "label": "global"},
	})
	v.SetDefault("data.dir", "data")
	v.SetDefault("http.user_agent", "realme-updates-tracker/1.0 (+https://realmeupdater.com)")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.nav_timeout_seconds", 45)
	v.SetDefault("mirror.backend", "gcs")
	v.SetDefault("telegram.chat", "@RealmeUpdatesTracker")
	v.SetDefault("telegram.site_url", "https://realmeupdater.com")
	v.SetDefault("git.author_name", "RealmeCI")
	v.SetDefault("git.author_email", "ci@realmeupdater.com")
	v.SetDefault("git.branch", "master")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region must be configured")
	}
	seen := make(map[string]struct{}, len(c.Regions))
	for _, region := range c.Regions {
		if region.Code == "" || region.Label == "" {
			return fmt.Errorf("regions entries need both code and label")
		}
		if _, dup := seen[region.Label]; dup {
			return fmt.Errorf("duplicate region label %q", region.Label)
		}
		seen[region.Label] = struct{}{}
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Mirror.Enabled {
		switch c.Mirror.Backend {
		case "gcs":
			if c.Mirror.GCS.Bucket == "" {
				return fmt.Errorf("mirror.gcs.bucket must be set for the gcs backend")
			}
		case "local":
			if c.Mirror.Local.BaseDir == "" {
				return fmt.Errorf("mirror.local.base_dir must be set for the local backend")
			}
		default:
			return fmt.Errorf("unknown mirror backend %q", c.Mirror.Backend)
		}
	}
	return nil
}

// RegionURL returns the support page URL for a region code.
func (c Config) RegionURL(code string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.Site.BaseURL, "/"), code, c.Site.Page)
}

// HTTPTimeout converts the configured fetch timeout into a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// NavTimeout converts the headless navigation timeout into a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSeconds) * time.Second
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTargetSavings is the annual savings goal the credit score is
	// measured against (UGX, thousands).
	DefaultTargetSavings = 7680
	// DefaultConversionRate converts savings units to the displayed account
	// balance. Configuration, not logic; change it here, not in metrics.
	DefaultConversionRate = 3600
)

// Config holds everything the client needs to run.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	DataDir        string        `yaml:"data_dir"`
	LogLevel       string        `yaml:"log_level"`
	Development    bool          `yaml:"development"`
	TargetSavings  float64       `yaml:"target_savings"`
	ConversionRate float64       `yaml:"conversion_rate"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	SandboxAddr    string        `yaml:"sandbox_addr"`
	// CompatTokenFallback keeps sign-in working against server builds that
	// omit tokens (notably /register, which only returns an identifier).
	// Turn off once the backend issues tokens on every auth response.
	CompatTokenFallback bool `yaml:"compat_token_fallback"`
}

// Load reads the optional YAML config file, then applies .env / environment
// overrides on top. A missing file is not an error; defaults cover everything.
func Load(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:     "http://localhost:8000",
		LogLevel:       "info",
		TargetSavings:  DefaultTargetSavings,
		ConversionRate: DefaultConversionRate,
		HTTPTimeout:    15 * time.Second,
		SandboxAddr:    ":8000",

		CompatTokenFallback: true,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	// Environment always wins over the file.
	_ = godotenv.Load()
	applyEnv(cfg)

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DataDir = filepath.Join(home, ".cariya-wallet")
	}
	if cfg.TargetSavings <= 0 {
		cfg.TargetSavings = DefaultTargetSavings
	}
	if cfg.ConversionRate <= 0 {
		cfg.ConversionRate = DefaultConversionRate
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CARIYA_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CARIYA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CARIYA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CARIYA_DEV"); v != "" {
		cfg.Development = v == "1" || v == "true"
	}
	if v := os.Getenv("CARIYA_TARGET_SAVINGS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TargetSavings = f
		}
	}
	if v := os.Getenv("CARIYA_CONVERSION_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ConversionRate = f
		}
	}
	if v := os.Getenv("CARIYA_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("CARIYA_SANDBOX_ADDR"); v != "" {
		cfg.SandboxAddr = v
	}
}

// SessionPath is the bolt database file holding the persisted session.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// LogPath is where production-mode logs are appended.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "wallet.log")
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

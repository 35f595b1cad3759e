package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the shopsearch service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Search   SearchConfig   `yaml:"search"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds catalog store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds key layout and seeding settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	// CatalogFile seeds the memory driver from a JSON catalog dump.
	CatalogFile string `yaml:"catalog_file"`
}

// SearchConfig is the search option set. Defaults mirror the legacy plugin
// settings; persisted overrides may be overlaid per request cycle via
// ReloadConfig.
type SearchConfig struct {
	EnableAJAX  bool `yaml:"enable_ajax"`
	MinChars    int  `yaml:"min_chars"`    // 1..5
	ResultLimit int  `yaml:"result_limit"` // 1..50

	SearchInTitle      bool `yaml:"search_in_title"`
	SearchInSKU        bool `yaml:"search_in_sku"`
	SearchInContent    bool `yaml:"search_in_content"`
	SearchInExcerpt    bool `yaml:"search_in_excerpt"`
	SearchInCategories bool `yaml:"search_in_categories"`
	SearchInTags       bool `yaml:"search_in_tags"`
	SearchInAttributes bool `yaml:"search_in_attributes"`

	ExcludeOutOfStock    bool `yaml:"exclude_out_of_stock"`
	EnableTypoCorrection bool `yaml:"enable_typo_correction"`
	EnableSynonyms       bool `yaml:"enable_synonyms"`

	ExcludedProductIDs []int64 `yaml:"excluded_product_ids"`
}

// DefaultSearchConfig returns the legacy plugin defaults: title-only search,
// ten results, two-character minimum, typo correction and synonyms on.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		EnableAJAX:           true,
		MinChars:             2,
		ResultLimit:          10,
		SearchInTitle:        true,
		EnableTypoCorrection: true,
		EnableSynonyms:       true,
	}
}

// ExcludedSet returns the excluded product ids as a membership set.
func (sc *SearchConfig) ExcludedSet() map[int64]struct{} {
	if len(sc.ExcludedProductIDs) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(sc.ExcludedProductIDs))
	for _, id := range sc.ExcludedProductIDs {
		set[id] = struct{}{}
	}
	return set
}

// Validate checks the option ranges of the search config.
func (sc *SearchConfig) Validate() error {
	if sc.MinChars < 1 || sc.MinChars > 5 {
		return fmt.Errorf("search.min_chars must be between 1 and 5, got %d", sc.MinChars)
	}
	if sc.ResultLimit < 1 || sc.ResultLimit > 50 {
		return fmt.Errorf("search.result_limit must be between 1 and 50, got %d", sc.ResultLimit)
	}
	return nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	// Absent yaml keys keep the search defaults.
	cfg := Config{Search: DefaultSearchConfig()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "shopsearch:"
	}
	if c.Search.MinChars <= 0 {
		c.Search.MinChars = 2
	}
	if c.Search.ResultLimit <= 0 {
		c.Search.ResultLimit = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	case "memory":
		// no connection settings
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"memory\", got %q", c.Database.Driver)
	}
	return c.Search.Validate()
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

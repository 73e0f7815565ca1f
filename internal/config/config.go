package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the caselookup API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Search   SearchConfig   `yaml:"search"`
	Local    LocalConfig    `yaml:"local"`
	Cache    CacheConfig    `yaml:"cache"`
	Summary  SummaryConfig  `yaml:"summary"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
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

// UpstreamConfig holds case-law API client settings.
type UpstreamConfig struct {
	BaseURL        string  `yaml:"base_url"`
	SummaryBaseURL string  `yaml:"summary_base_url"` // default: base_url
	TimeoutSec     int     `yaml:"timeout_sec"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	RateBurst      int     `yaml:"rate_burst"`
	MaxRetries     int     `yaml:"max_retries"`
}

// SearchConfig holds query and pagination settings.
type SearchConfig struct {
	PageSize         int    `yaml:"page_size"`
	DefaultTopic     string `yaml:"default_topic"`
	DebounceMS       int    `yaml:"debounce_ms"`
	BothPagination   string `yaml:"both_pagination"` // first_page | every_page
	UseCache         *bool  `yaml:"use_cache"`
	CacheMaxAgeHours int    `yaml:"cache_max_age_hours"`
}

// LocalConfig holds the in-memory case collection settings.
type LocalConfig struct {
	CasesFile string `yaml:"cases_file"` // empty = no local collection
	IDPrefix  string `yaml:"id_prefix"`
}

// CacheConfig holds the upstream response cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // redis, valkey (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SummaryConfig holds on-demand summary settings.
type SummaryConfig struct {
	Provider    string       `yaml:"provider"` // kenyalaw (default), openai
	Placeholder string       `yaml:"placeholder"`
	MemoSize    int          `yaml:"memo_size"`
	MemoTTLMin  int          `yaml:"memo_ttl_min"`
	OpenAI      OpenAIConfig `yaml:"openai"`
}

// MemoTTL returns how long a summary stays memoized in process.
func (s SummaryConfig) MemoTTL() time.Duration {
	return time.Duration(s.MemoTTLMin) * time.Minute
}

// OpenAIConfig holds the OpenAI-compatible summary model settings.
type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxInput  int    `yaml:"max_input_chars"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Debounce returns the free-text quiet period.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// CacheTTL returns the upstream cache entry lifetime.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheMaxAgeHours) * time.Hour
}

// Timeout returns the per-request upstream timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSec) * time.Second
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

	var cfg Config
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Upstream.SummaryBaseURL == "" {
		c.Upstream.SummaryBaseURL = c.Upstream.BaseURL
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 30
	}
	if c.Upstream.RateBurst <= 0 {
		c.Upstream.RateBurst = 5
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 10
	}
	if c.Search.DefaultTopic == "" {
		c.Search.DefaultTopic = "constitutional rights"
	}
	if c.Search.DebounceMS <= 0 {
		c.Search.DebounceMS = 500
	}
	if c.Search.BothPagination == "" {
		c.Search.BothPagination = "first_page"
	}
	if c.Search.UseCache == nil {
		useCache := true
		c.Search.UseCache = &useCache
	}
	if c.Search.CacheMaxAgeHours <= 0 {
		c.Search.CacheMaxAgeHours = 24
	}
	if c.Local.IDPrefix == "" {
		c.Local.IDPrefix = "local-"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = "kenyalaw"
	}
	if c.Summary.Placeholder == "" {
		c.Summary.Placeholder = "Summary not available."
	}
	if c.Summary.MemoSize <= 0 {
		c.Summary.MemoSize = 1024
	}
	if c.Summary.MemoTTLMin <= 0 {
		c.Summary.MemoTTLMin = 24 * 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Upstream.RateLimitRPS < 0 {
		return fmt.Errorf("upstream.rate_limit_rps must not be negative, got %v", c.Upstream.RateLimitRPS)
	}
	if c.Upstream.MaxRetries < 0 || c.Upstream.MaxRetries > 10 {
		return fmt.Errorf("upstream.max_retries must be between 0 and 10, got %d", c.Upstream.MaxRetries)
	}
	switch c.Search.BothPagination {
	case "first_page", "every_page":
	default:
		return fmt.Errorf(
			"search.both_pagination must be \"first_page\" or \"every_page\", got %q",
			c.Search.BothPagination,
		)
	}
	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "redis", "valkey":
		default:
			return fmt.Errorf("cache.driver must be \"redis\" or \"valkey\", got %q", c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when cache is enabled")
		}
	}
	switch c.Summary.Provider {
	case "kenyalaw":
	case "openai":
		if c.Summary.OpenAI.APIKey == "" || c.Summary.OpenAI.Model == "" {
			return fmt.Errorf("summary.openai.api_key and summary.openai.model are required for the openai provider")
		}
	default:
		return fmt.Errorf("summary.provider must be \"kenyalaw\" or \"openai\", got %q", c.Summary.Provider)
	}
	return nil
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

package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the optional YAML
// configuration file. File values sit below environment variables in
// precedence.
type FileConfig struct {
	APIToken string `yaml:"api_token,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// Config holds the final application configuration, merged from file and
// environment variables. Fields are loaded from environment variables with
// the prefix "TYC_", overriding file settings.
type Config struct {
	// Config file path (loaded first from env). Optional.
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// APIToken is the Tianyancha open-platform token sent with every lookup.
	// Held in memory only; never persisted by this process.
	APIToken string `envconfig:"API_TOKEN"`

	// BaseURL is the provider endpoint root. Overridable mainly for tests
	// and proxies.
	BaseURL string `envconfig:"BASE_URL" default:"http://open.api.tianyancha.com"`

	ListenAddr      string `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminListenAddr string `envconfig:"ADMIN_LISTEN_ADDR" default:":8081"`

	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	MaxRetries        int           `envconfig:"MAX_RETRIES" default:"2"`
	RetryBackoff      time.Duration `envconfig:"RETRY_BACKOFF" default:"500ms"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration from environment variables (which also carry the
// file path), then merges in the YAML file if one is specified. Precedence is
// environment > file > tag default: the first Process pass bakes env values
// and tag defaults into the struct, so file values are applied only for
// fields whose environment variable is not set — re-running envconfig after
// the merge would re-apply tag defaults over file values.
func Load() (*Config, error) {
	var finalCfg Config
	if err := envconfig.Process("tyc", &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if finalCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(finalCfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", finalCfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", finalCfg.ConfigFilePath, err)
		}
		slog.Info("Loaded configuration from file.", "path", finalCfg.ConfigFilePath)

		if fileCfg.APIToken != "" && os.Getenv("TYC_API_TOKEN") == "" {
			finalCfg.APIToken = fileCfg.APIToken
		}
		if fileCfg.BaseURL != "" && os.Getenv("TYC_BASE_URL") == "" {
			finalCfg.BaseURL = fileCfg.BaseURL
		}
	}

	return &finalCfg, nil
}

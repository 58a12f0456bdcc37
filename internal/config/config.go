package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API    APIConfig
	Import ImportConfig
	Log    LogConfig
	S3     S3Config
}

// APIConfig holds CRM API connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImportConfig holds batch submission settings.
type ImportConfig struct {
	BatchSize    int           `mapstructure:"batch_size"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	BatchPause   time.Duration `mapstructure:"batch_pause"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	Dir  string `mapstructure:"dir"`
	File string `mapstructure:"file"`
}

// S3Config holds AWS S3 settings for s3:// sources and export targets.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// MaxBatchSize is the CRM's hard limit on records per batch-create request.
const MaxBatchSize = 100

// Load reads configuration from environment variables with the TAXIMPORT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXIMPORT")
	v.AutomaticEnv()

	// API defaults
	v.SetDefault("api.base_url", "https://api.hubapi.com")
	v.SetDefault("api.timeout", "30s")

	// Import defaults
	v.SetDefault("import.batch_size", MaxBatchSize)
	v.SetDefault("import.max_attempts", 3)
	v.SetDefault("import.retry_backoff", "1s")
	v.SetDefault("import.batch_pause", "500ms")

	// Log defaults
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.file", "tax_import.log")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"api.base_url":         "TAXIMPORT_API_BASE_URL",
		"api.timeout":          "TAXIMPORT_API_TIMEOUT",
		"import.batch_size":    "TAXIMPORT_IMPORT_BATCH_SIZE",
		"import.max_attempts":  "TAXIMPORT_IMPORT_MAX_ATTEMPTS",
		"import.retry_backoff": "TAXIMPORT_IMPORT_RETRY_BACKOFF",
		"import.batch_pause":   "TAXIMPORT_IMPORT_BATCH_PAUSE",
		"log.dir":              "TAXIMPORT_LOG_DIR",
		"log.file":             "TAXIMPORT_LOG_FILE",
		"s3.region":            "TAXIMPORT_S3_REGION",
		"s3.endpoint":          "TAXIMPORT_S3_ENDPOINT",
		"s3.access_key":        "TAXIMPORT_S3_ACCESS_KEY",
		"s3.secret_key":        "TAXIMPORT_S3_SECRET_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.API = APIConfig{
		BaseURL: v.GetString("api.base_url"),
		Timeout: v.GetDuration("api.timeout"),
	}
	cfg.Import = ImportConfig{
		BatchSize:    v.GetInt("import.batch_size"),
		MaxAttempts:  v.GetInt("import.max_attempts"),
		RetryBackoff: v.GetDuration("import.retry_backoff"),
		BatchPause:   v.GetDuration("import.batch_pause"),
	}
	if cfg.Import.BatchSize <= 0 || cfg.Import.BatchSize > MaxBatchSize {
		cfg.Import.BatchSize = MaxBatchSize
	}
	cfg.Log = LogConfig{
		Dir:  v.GetString("log.dir"),
		File: v.GetString("log.file"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	return cfg, nil
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	LLM     LLMConfig
	Session SessionConfig
	OCR     OCRConfig
	Archive ArchiveConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	FrontendPath string        `mapstructure:"frontend_path"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload size limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds settings for the language model provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	// BaseURL overrides the provider endpoint (proxies, compatible gateways, tests).
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSecs bounds one model call; 0 means no client-side timeout.
	TimeoutSecs int `mapstructure:"timeout_secs"`
}

// Timeout returns the per-call timeout, zero when unbounded.
func (l *LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSecs) * time.Second
}

// SessionConfig selects the session store engine.
type SessionConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// OCRConfig holds settings for the tesseract binary.
type OCRConfig struct {
	Tesseract string `mapstructure:"tesseract"`
	Lang      string `mapstructure:"lang"`
	PSM       int    `mapstructure:"psm"`
}

// ArchiveConfig holds S3 settings for archiving uploaded documents.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// providerKeyEnv names the conventional API key variable of each provider.
var providerKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
}

// Load reads configuration from environment variables with the INVOICE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.frontend_path", "index.html")
	v.SetDefault("server.max_upload_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout_secs", 0)

	// Session store defaults
	v.SetDefault("session.driver", "sqlite")
	v.SetDefault("session.path", "storage/sessions.db")
	v.SetDefault("session.dsn", "")

	// OCR defaults
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.psm", 6)

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "invoiceinsight-uploads")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.prefix", "uploads")

	// CORS defaults (local UI ports)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:7860,http://127.0.0.1:7860")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "INVOICE_SERVER_PORT",
		"server.read_timeout":  "INVOICE_SERVER_READ_TIMEOUT",
		"server.write_timeout": "INVOICE_SERVER_WRITE_TIMEOUT",
		"server.environment":   "INVOICE_SERVER_ENVIRONMENT",
		"server.frontend_path": "INVOICE_SERVER_FRONTEND_PATH",
		"server.max_upload_mb": "INVOICE_SERVER_MAX_UPLOAD_MB",
		"log.level":            "INVOICE_LOG_LEVEL",
		"log.format":           "INVOICE_LOG_FORMAT",
		"llm.provider":         "INVOICE_LLM_PROVIDER",
		"llm.api_key":          "INVOICE_LLM_API_KEY",
		"llm.model":            "INVOICE_LLM_MODEL",
		"llm.base_url":         "INVOICE_LLM_BASE_URL",
		"llm.timeout_secs":     "INVOICE_LLM_TIMEOUT_SECS",
		"session.driver":       "INVOICE_SESSION_DRIVER",
		"session.path":         "INVOICE_SESSION_PATH",
		"session.dsn":          "INVOICE_SESSION_DSN",
		"ocr.tesseract":        "INVOICE_OCR_TESSERACT",
		"ocr.lang":             "INVOICE_OCR_LANG",
		"ocr.psm":              "INVOICE_OCR_PSM",
		"archive.enabled":      "INVOICE_ARCHIVE_ENABLED",
		"archive.region":       "INVOICE_ARCHIVE_REGION",
		"archive.bucket":       "INVOICE_ARCHIVE_BUCKET",
		"archive.endpoint":     "INVOICE_ARCHIVE_ENDPOINT",
		"archive.access_key":   "INVOICE_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":   "INVOICE_ARCHIVE_SECRET_KEY",
		"archive.prefix":       "INVOICE_ARCHIVE_PREFIX",
		"cors.allowed_origins": "INVOICE_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if INVOICE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		FrontendPath: v.GetString("server.frontend_path"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.LLM = LLMConfig{
		Provider:    v.GetString("llm.provider"),
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
	}
	if cfg.LLM.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	cfg.Session = SessionConfig{
		Driver: v.GetString("session.driver"),
		Path:   v.GetString("session.path"),
		DSN:    v.GetString("session.dsn"),
	}
	cfg.OCR = OCRConfig{
		Tesseract: v.GetString("ocr.tesseract"),
		Lang:      v.GetString("ocr.lang"),
		PSM:       v.GetInt("ocr.psm"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled:   v.GetBool("archive.enabled"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
		Prefix:    v.GetString("archive.prefix"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	UploadDir         string
	MaxUploadBytes    int64
	MaxCommentChars   int
	AllowedExtensions []string
	MarkdownCleanup   bool

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	CacheTTL       time.Duration

	AWSRegion          string
	AWSEndpoint        string
	UploadJournalTable string

	ShutdownTimeout time.Duration
}

func (c Config) CacheEnabled() bool   { return c.ValkeyAddress != "" }
func (c Config) JournalEnabled() bool { return c.UploadJournalTable != "" }

// FromEnv reads the process environment. Call LoadEnv first to pick up
// values from the env file.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		AppEnv:             get("APP_ENV", "dev"),
		Port:               get("PORT", "5000"),
		LogLevel:           get("LOG_LEVEL", "info"),
		UploadDir:          get("UPLOAD_DIR", "static/uploads"),
		ValkeyAddress:      get("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword:     get("VALKEY_PASSWORD", ""),
		AWSRegion:          get("AWS_REGION", "us-west-2"),
		AWSEndpoint:        get("AWS_ENDPOINT", ""),
		UploadJournalTable: get("UPLOAD_JOURNAL_TABLE", ""),
	}

	var err error
	if cfg.MaxUploadBytes, err = parseInt64(get("MAX_UPLOAD_BYTES", "2097152"), "MAX_UPLOAD_BYTES"); err != nil {
		return Config{}, err
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}

	maxChars, err := parseInt64(get("MAX_COMMENT_CHARS", "10000"), "MAX_COMMENT_CHARS")
	if err != nil {
		return Config{}, err
	}
	cfg.MaxCommentChars = int(maxChars)

	if cfg.MarkdownCleanup, err = parseBool(get("SENTIMENT_MARKDOWN_CLEANUP", "true"), "SENTIMENT_MARKDOWN_CLEANUP"); err != nil {
		return Config{}, err
	}
	if cfg.ValkeyTLS, err = parseBool(get("VALKEY_TLS", "false"), "VALKEY_TLS"); err != nil {
		return Config{}, err
	}

	ttl, err := parseInt64(get("CACHE_TTL_SECONDS", "86400"), "CACHE_TTL_SECONDS")
	if err != nil {
		return Config{}, err
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", ttl)
	}
	cfg.CacheTTL = time.Duration(ttl) * time.Second

	shutdown, err := parseInt64(get("SHUTDOWN_TIMEOUT_SECONDS", "10"), "SHUTDOWN_TIMEOUT_SECONDS")
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = time.Duration(shutdown) * time.Second

	for _, ext := range strings.Split(get("ALLOWED_EXTENSIONS", "txt"), ",") {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			cfg.AllowedExtensions = append(cfg.AllowedExtensions, ext)
		}
	}
	if len(cfg.AllowedExtensions) == 0 {
		return Config{}, fmt.Errorf("ALLOWED_EXTENSIONS must name at least one extension")
	}

	return cfg, nil
}

func parseInt64(v, key string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func parseBool(v, key string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

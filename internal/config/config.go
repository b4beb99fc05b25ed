package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables
// (with defaults).
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Redis  RedisConfig  `mapstructure:"redis"`
	MinIO  MinIOConfig  `mapstructure:"minio"`
	Clamd  ClamdConfig  `mapstructure:"clamd"`
	AI     AIConfig     `mapstructure:"ai"`
	Render RenderConfig `mapstructure:"render"`
	Editor EditorConfig `mapstructure:"editor"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig holds the design store connection. Enabled=false keeps saved
// designs on local disk instead.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	DesignKey string `mapstructure:"design_key"`
	DesignDir string `mapstructure:"design_dir"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Endpoint         string        `mapstructure:"endpoint"`
	PublicEndpoint   string        `mapstructure:"public_endpoint"`
	AccessKeyID      string        `mapstructure:"access_key_id"`
	SecretAccessKey  string        `mapstructure:"secret_access_key"`
	UseSSL           bool          `mapstructure:"use_ssl"`
	Bucket           string        `mapstructure:"bucket"`
	Region           string        `mapstructure:"region"`
	BucketLookup     string        `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool          `mapstructure:"auto_create_bucket"`
	PresignTTL       time.Duration `mapstructure:"presign_ttl"`
}

// ClamdConfig points at a clamd daemon. An empty address disables scanning.
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RenderConfig controls font lookup and image reference resolution.
type RenderConfig struct {
	FontsDir      string        `mapstructure:"fonts_dir"`
	TemplatesDir  string        `mapstructure:"templates_dir"`
	AssetsDir     string        `mapstructure:"assets_dir"`
	ImageTimeout  time.Duration `mapstructure:"image_timeout"`
	MaxImageBytes int64         `mapstructure:"max_image_bytes"`
	// MaxImagePixels caps width*height of a decoded image.
	MaxImagePixels int64 `mapstructure:"max_image_pixels"`
	AllowFileRefs  bool  `mapstructure:"allow_file_refs"`
	// AllowRemoteRefs enables http(s) image references. Unless
	// AllowPrivateHosts is set they may only reach public addresses.
	AllowRemoteRefs   bool `mapstructure:"allow_remote_refs"`
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts"`
}

type EditorConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// Load reads configuration from environment variables (with defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.AllowedOrigins = splitList(cfg.API.AllowedOrigins)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.design_key", "savedCardDesign")
	v.SetDefault("redis.design_dir", "data")
	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "cards")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("minio.presign_ttl", 15*time.Minute)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("render.fonts_dir", "fonts")
	v.SetDefault("render.templates_dir", "templates")
	v.SetDefault("render.assets_dir", "assets")
	v.SetDefault("render.image_timeout", 10*time.Second)
	v.SetDefault("render.max_image_bytes", 10<<20)
	v.SetDefault("render.max_image_pixels", 25_000_000)
	v.SetDefault("render.allow_file_refs", false)
	v.SetDefault("render.allow_remote_refs", true)
	v.SetDefault("render.allow_private_hosts", false)
	v.SetDefault("editor.history_limit", 50)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                   "API_PORT",
		"api.allowed_origins":        "API_ALLOWED_ORIGINS",
		"log.level":                  "LOG_LEVEL",
		"log.format":                 "LOG_FORMAT",
		"redis.enabled":              "REDIS_ENABLED",
		"redis.host":                 "REDIS_HOST",
		"redis.port":                 "REDIS_PORT",
		"redis.password":             "REDIS_PASSWORD",
		"redis.db":                   "REDIS_DB",
		"redis.design_key":           "REDIS_DESIGN_KEY",
		"redis.design_dir":           "DESIGN_DIR",
		"minio.enabled":              "MINIO_ENABLED",
		"minio.endpoint":             "MINIO_ENDPOINT",
		"minio.public_endpoint":      "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":        "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":    "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":              "MINIO_USE_SSL",
		"minio.bucket":               "MINIO_BUCKET",
		"minio.region":               "MINIO_REGION",
		"minio.bucket_lookup":        "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":   "MINIO_AUTO_CREATE_BUCKET",
		"minio.presign_ttl":          "MINIO_PRESIGN_TTL",
		"clamd.addr":                 "CLAMD_ADDR",
		"ai.api_key":                 "GEMINI_API_KEY",
		"ai.model":                   "AI_MODEL",
		"ai.timeout":                 "AI_TIMEOUT",
		"render.fonts_dir":           "FONTS_DIR",
		"render.templates_dir":       "TEMPLATES_DIR",
		"render.assets_dir":          "ASSETS_DIR",
		"render.image_timeout":       "IMAGE_TIMEOUT",
		"render.max_image_bytes":     "MAX_IMAGE_BYTES",
		"render.allow_file_refs":     "ALLOW_FILE_REFS",
		"render.max_image_pixels":    "MAX_IMAGE_PIXELS",
		"render.allow_remote_refs":   "ALLOW_REMOTE_REFS",
		"render.allow_private_hosts": "ALLOW_PRIVATE_HOSTS",
		"editor.history_limit":       "EDITOR_HISTORY_LIMIT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// splitList accepts both a real list and a single comma separated env value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q must be text or json", cfg.Log.Format)
	}
	if cfg.Redis.Enabled {
		if cfg.Redis.Host == "" {
			return errors.New("redis host is required")
		}
		if cfg.Redis.Port <= 0 {
			return errors.New("redis port must be positive")
		}
	}
	if cfg.Redis.DesignKey == "" {
		return errors.New("redis design key is required")
	}
	if cfg.MinIO.Enabled {
		if cfg.MinIO.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	}
	if cfg.AI.Timeout <= 0 {
		return errors.New("ai timeout must be positive")
	}
	if cfg.Render.ImageTimeout <= 0 {
		return errors.New("render image timeout must be positive")
	}
	if cfg.Render.MaxImageBytes <= 0 {
		return errors.New("render max image bytes must be positive")
	}
	if cfg.Render.MaxImagePixels <= 0 {
		return errors.New("render max image pixels must be positive")
	}
	if cfg.Editor.HistoryLimit <= 0 {
		return errors.New("editor history limit must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the media gateway.
type Config struct {
	Server   ServerConfig
	MinIO    MinIOConfig
	Media    MediaConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Services ServicesConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MinIOConfig carries object store connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	PathStyle       bool
}

// MediaConfig groups upload policy and addressing settings.
type MediaConfig struct {
	MaxUploadBytes int64
	MaxAvatarBytes int64
	AvatarSize     int
	PresignTTL     time.Duration
	PublicBaseURL  string
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	ServiceTokenSecret string
}

// CacheConfig selects and parameterizes the entity cache backend.
type CacheConfig struct {
	Backend       string // "memory" or "redis"
	RedisAddr     string
	RedisDB       int
	RedisPassword string
}

// ServicesConfig holds base URLs of the upstream REST microservices.
type ServicesConfig struct {
	UserBaseURL      string
	InstituteBaseURL string
	JobBaseURL       string
	ContentBaseURL   string
	RequestTimeout   time.Duration
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("MEDIA_API_HOST", "0.0.0.0"),
			Port:         getInt("MEDIA_API_PORT", 8080),
			ReadTimeout:  getDuration("MEDIA_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("MEDIA_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("MEDIA_API_IDLE_TIMEOUT", 60*time.Second),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "pharminc"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "pharminc-media"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PathStyle:       getBool("MINIO_PATH_STYLE", true),
		},
		Media: MediaConfig{
			MaxUploadBytes: getInt64("MEDIA_MAX_UPLOAD_BYTES", 10*1024*1024),
			MaxAvatarBytes: getInt64("MEDIA_MAX_AVATAR_BYTES", 5*1024*1024),
			AvatarSize:     getInt("MEDIA_AVATAR_SIZE", 400),
			PresignTTL:     getDuration("MEDIA_PRESIGN_TTL", 24*time.Hour),
			PublicBaseURL:  strings.TrimRight(getString("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		},
		Auth: AuthConfig{
			ServiceTokenSecret: getString("MEDIA_SERVICE_TOKEN_SECRET", "change-me-to-a-32-byte-secret"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getString("MEDIA_CACHE_BACKEND", "memory")),
			RedisAddr:     getString("REDIS_ADDR", "localhost:6379"),
			RedisDB:       getInt("REDIS_DB", 0),
			RedisPassword: getString("REDIS_PASSWORD", ""),
		},
		Services: ServicesConfig{
			UserBaseURL:      getString("USER_SERVICE_URL", "http://localhost:8081"),
			InstituteBaseURL: getString("INSTITUTE_SERVICE_URL", "http://localhost:8082"),
			JobBaseURL:       getString("JOB_SERVICE_URL", "http://localhost:8083"),
			ContentBaseURL:   getString("CONTENT_SERVICE_URL", "http://localhost:8084"),
			RequestTimeout:   getDuration("SERVICE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("MEDIA_METRICS_PATH", "/metrics"),
		},
	}

	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

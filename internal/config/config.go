package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Storage    StorageConfig
	S3         S3Config
	Minio      MinioConfig
	Upload     UploadConfig
	Catalog    CatalogConfig
	NATS       NATSConfig
	Email      EmailConfig
	Log        LogConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	Resilience ResilienceConfig
	Policy     PolicyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// StorageConfig selects the object storage backend.
type StorageConfig struct {
	Provider string `mapstructure:"provider"` // "s3" or "minio"
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MinioConfig holds settings for a MinIO (or other S3-compatible) server.
type MinioConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// UploadConfig holds document slot upload settings.
type UploadConfig struct {
	Transport       string        `mapstructure:"transport"` // "simulated" or "storage"
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	MinStep         int           `mapstructure:"min_step"`
	MaxStep         int           `mapstructure:"max_step"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	SlotIdleTTL     time.Duration `mapstructure:"slot_idle_ttl"`
	MaxRequestMB    int64         `mapstructure:"max_request_mb"`
	PreviewMaxPixel int           `mapstructure:"preview_max_pixel"`
}

// CatalogConfig points at the document slot catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// NATSConfig holds verification event settings. An empty URL disables NATS.
type NATSConfig struct {
	URL             string `mapstructure:"url"`
	DecisionSubject string `mapstructure:"decision_subject"`
	InboundSubject  string `mapstructure:"inbound_subject"`
	QueueGroup      string `mapstructure:"queue_group"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig bounds upload requests per client.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
}

// ResilienceConfig holds retry and circuit breaker settings for outbound calls.
type ResilienceConfig struct {
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialBackoff  time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff"`
	FailureRatio    float64       `mapstructure:"failure_ratio"`
	MinRequests     uint32        `mapstructure:"min_requests"`
	OpenTimeout     time.Duration `mapstructure:"open_timeout"`
	HalfOpenMaxReqs uint32        `mapstructure:"half_open_max_requests"`
}

// PolicyConfig selects the access policy.
type PolicyConfig struct {
	Mode string `mapstructure:"mode"` // "permissive" or "rbac"
}

// Load reads configuration from environment variables with the HRDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HRDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hrdesk")
	v.SetDefault("db.password", "hrdesk_secret")
	v.SetDefault("db.name", "hrdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "hrdesk")

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "hrdesk-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.bucket", "hrdesk-documents")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.presign_expiry", 3600)

	// Upload defaults
	v.SetDefault("upload.transport", "storage")
	v.SetDefault("upload.tick_interval", "200ms")
	v.SetDefault("upload.min_step", 5)
	v.SetDefault("upload.max_step", 15)
	v.SetDefault("upload.settle_delay", "500ms")
	v.SetDefault("upload.slot_idle_ttl", "30m")
	v.SetDefault("upload.max_request_mb", 20)
	v.SetDefault("upload.preview_max_pixel", 512)

	v.SetDefault("catalog.path", "")

	// NATS defaults
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.decision_subject", "hrdesk.documents.verification")
	v.SetDefault("nats.inbound_subject", "hrdesk.documents.verification.external")
	v.SetDefault("nats.queue_group", "hrdesk")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@hrdesk.local")
	v.SetDefault("email.from_name", "HR Desk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	// Resilience defaults
	v.SetDefault("resilience.max_retries", 3)
	v.SetDefault("resilience.initial_backoff", "200ms")
	v.SetDefault("resilience.max_backoff", "2s")
	v.SetDefault("resilience.failure_ratio", 0.6)
	v.SetDefault("resilience.min_requests", 5)
	v.SetDefault("resilience.open_timeout", "30s")
	v.SetDefault("resilience.half_open_max_requests", 1)

	v.SetDefault("policy.mode", "permissive")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "HRDESK_SERVER_PORT",
		"server.read_timeout":               "HRDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "HRDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":                "HRDESK_SERVER_ENVIRONMENT",
		"db.host":                           "HRDESK_DB_HOST",
		"db.port":                           "HRDESK_DB_PORT",
		"db.user":                           "HRDESK_DB_USER",
		"db.password":                       "HRDESK_DB_PASSWORD",
		"db.name":                           "HRDESK_DB_NAME",
		"db.sslmode":                        "HRDESK_DB_SSLMODE",
		"db.max_open":                       "HRDESK_DB_MAX_OPEN",
		"db.max_idle":                       "HRDESK_DB_MAX_IDLE",
		"db.conn_max_lifetime":              "HRDESK_DB_CONN_MAX_LIFETIME",
		"jwt.secret":                        "HRDESK_JWT_SECRET",
		"jwt.access_expiry":                 "HRDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":                "HRDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                        "HRDESK_JWT_ISSUER",
		"storage.provider":                  "HRDESK_STORAGE_PROVIDER",
		"s3.region":                         "HRDESK_S3_REGION",
		"s3.bucket":                         "HRDESK_S3_BUCKET",
		"s3.endpoint":                       "HRDESK_S3_ENDPOINT",
		"s3.access_key":                     "HRDESK_S3_ACCESS_KEY",
		"s3.secret_key":                     "HRDESK_S3_SECRET_KEY",
		"s3.presign_expiry":                 "HRDESK_S3_PRESIGN_EXPIRY",
		"minio.endpoint":                    "HRDESK_MINIO_ENDPOINT",
		"minio.access_key":                  "HRDESK_MINIO_ACCESS_KEY",
		"minio.secret_key":                  "HRDESK_MINIO_SECRET_KEY",
		"minio.bucket":                      "HRDESK_MINIO_BUCKET",
		"minio.use_ssl":                     "HRDESK_MINIO_USE_SSL",
		"minio.presign_expiry":              "HRDESK_MINIO_PRESIGN_EXPIRY",
		"upload.transport":                  "HRDESK_UPLOAD_TRANSPORT",
		"upload.tick_interval":              "HRDESK_UPLOAD_TICK_INTERVAL",
		"upload.min_step":                   "HRDESK_UPLOAD_MIN_STEP",
		"upload.max_step":                   "HRDESK_UPLOAD_MAX_STEP",
		"upload.settle_delay":               "HRDESK_UPLOAD_SETTLE_DELAY",
		"upload.slot_idle_ttl":              "HRDESK_UPLOAD_SLOT_IDLE_TTL",
		"upload.max_request_mb":             "HRDESK_UPLOAD_MAX_REQUEST_MB",
		"upload.preview_max_pixel":          "HRDESK_UPLOAD_PREVIEW_MAX_PIXEL",
		"catalog.path":                      "HRDESK_CATALOG_PATH",
		"nats.url":                          "HRDESK_NATS_URL",
		"nats.decision_subject":             "HRDESK_NATS_DECISION_SUBJECT",
		"nats.inbound_subject":              "HRDESK_NATS_INBOUND_SUBJECT",
		"nats.queue_group":                  "HRDESK_NATS_QUEUE_GROUP",
		"email.provider":                    "HRDESK_EMAIL_PROVIDER",
		"email.region":                      "HRDESK_EMAIL_REGION",
		"email.from_address":                "HRDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "HRDESK_EMAIL_FROM_NAME",
		"email.frontend_url":                "HRDESK_EMAIL_FRONTEND_URL",
		"log.level":                         "HRDESK_LOG_LEVEL",
		"log.format":                        "HRDESK_LOG_FORMAT",
		"cors.allowed_origins":              "HRDESK_CORS_ALLOWED_ORIGINS",
		"rate_limit.rps":                    "HRDESK_RATE_LIMIT_RPS",
		"rate_limit.burst":                  "HRDESK_RATE_LIMIT_BURST",
		"resilience.max_retries":            "HRDESK_RESILIENCE_MAX_RETRIES",
		"resilience.initial_backoff":        "HRDESK_RESILIENCE_INITIAL_BACKOFF",
		"resilience.max_backoff":            "HRDESK_RESILIENCE_MAX_BACKOFF",
		"resilience.failure_ratio":          "HRDESK_RESILIENCE_FAILURE_RATIO",
		"resilience.min_requests":           "HRDESK_RESILIENCE_MIN_REQUESTS",
		"resilience.open_timeout":           "HRDESK_RESILIENCE_OPEN_TIMEOUT",
		"resilience.half_open_max_requests": "HRDESK_RESILIENCE_HALF_OPEN_MAX_REQUESTS",
		"policy.mode":                       "HRDESK_POLICY_MODE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HRDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HRDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{Provider: strings.ToLower(v.GetString("storage.provider"))}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Minio = MinioConfig{
		Endpoint:      v.GetString("minio.endpoint"),
		AccessKey:     v.GetString("minio.access_key"),
		SecretKey:     v.GetString("minio.secret_key"),
		Bucket:        v.GetString("minio.bucket"),
		UseSSL:        v.GetBool("minio.use_ssl"),
		PresignExpiry: v.GetInt64("minio.presign_expiry"),
	}
	cfg.Upload = UploadConfig{
		Transport:       strings.ToLower(v.GetString("upload.transport")),
		TickInterval:    v.GetDuration("upload.tick_interval"),
		MinStep:         v.GetInt("upload.min_step"),
		MaxStep:         v.GetInt("upload.max_step"),
		SettleDelay:     v.GetDuration("upload.settle_delay"),
		SlotIdleTTL:     v.GetDuration("upload.slot_idle_ttl"),
		MaxRequestMB:    v.GetInt64("upload.max_request_mb"),
		PreviewMaxPixel: v.GetInt("upload.preview_max_pixel"),
	}
	cfg.Catalog = CatalogConfig{Path: v.GetString("catalog.path")}
	cfg.NATS = NATSConfig{
		URL:             v.GetString("nats.url"),
		DecisionSubject: v.GetString("nats.decision_subject"),
		InboundSubject:  v.GetString("nats.inbound_subject"),
		QueueGroup:      v.GetString("nats.queue_group"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.rps"),
		Burst:             v.GetInt("rate_limit.burst"),
	}
	cfg.Resilience = ResilienceConfig{
		MaxRetries:      v.GetInt("resilience.max_retries"),
		InitialBackoff:  v.GetDuration("resilience.initial_backoff"),
		MaxBackoff:      v.GetDuration("resilience.max_backoff"),
		FailureRatio:    v.GetFloat64("resilience.failure_ratio"),
		MinRequests:     v.GetUint32("resilience.min_requests"),
		OpenTimeout:     v.GetDuration("resilience.open_timeout"),
		HalfOpenMaxReqs: v.GetUint32("resilience.half_open_max_requests"),
	}
	cfg.Policy = PolicyConfig{Mode: strings.ToLower(v.GetString("policy.mode"))}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Provider {
	case "s3", "minio":
	default:
		return fmt.Errorf("unsupported storage provider %q", c.Storage.Provider)
	}
	switch c.Upload.Transport {
	case "simulated", "storage":
	default:
		return fmt.Errorf("unsupported upload transport %q", c.Upload.Transport)
	}
	switch c.Policy.Mode {
	case "permissive", "rbac":
	default:
		return fmt.Errorf("unsupported policy mode %q", c.Policy.Mode)
	}
	return nil
}

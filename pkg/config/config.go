package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App            AppConfig
	Service        ServiceConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	FeatureFlags   FeatureFlagsConfig
	GCP            GCPConfig
	GCS            GCSConfig
	Upload         UploadConfig
	PubSub         PubSubConfig
	DeviceSessions DeviceSessionsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OPENREEL_APP_ENV" required:"true"`
	Port         string `envconfig:"OPENREEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OPENREEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OPENREEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"OPENREEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"OPENREEL_DB_DSN"`
	Driver string `envconfig:"OPENREEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OPENREEL_DB_HOST"`
	LegacyPort     int    `envconfig:"OPENREEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OPENREEL_DB_USER"`
	LegacyPassword string `envconfig:"OPENREEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"OPENREEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"OPENREEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OPENREEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPENREEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPENREEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPENREEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OPENREEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OPENREEL_REDIS_ADDR"`
	Password     string        `envconfig:"OPENREEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPENREEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPENREEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPENREEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPENREEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPENREEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPENREEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OPENREEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPENREEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OPENREEL_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool   `envconfig:"OPENREEL_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"OPENREEL_GCS_ACCESS_MODE" default:"public"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"OPENREEL_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"OPENREEL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"OPENREEL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"OPENREEL_GCS_BUCKET_NAME" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"OPENREEL_GCS_DOWNLOAD_URL_EXPIRY" default:"15m"`
}

type UploadConfig struct {
	MaxVideoUploadGB int `envconfig:"OPENREEL_MAX_VIDEO_UPLOAD_GB" default:"10"`
	MaxImageUploadMB int `envconfig:"OPENREEL_MAX_IMAGE_UPLOAD_MB" default:"10"`
}

// MaxVideoBytes returns the configured cap for video uploads in bytes.
func (u UploadConfig) MaxVideoBytes() int64 {
	return int64(u.MaxVideoUploadGB) * 1024 * 1024 * 1024
}

// MaxImageBytes returns the configured cap for image uploads in bytes.
func (u UploadConfig) MaxImageBytes() int64 {
	return int64(u.MaxImageUploadMB) * 1024 * 1024
}

type PubSubConfig struct {
	IdentityEventsTopic       string `envconfig:"OPENREEL_PUBSUB_IDENTITY_TOPIC" default:"or-identity-events"`
	StorageEventsSubscription string `envconfig:"OPENREEL_PUBSUB_STORAGE_SUBSCRIPTION"`
}

type DeviceSessionsConfig struct {
	TTL time.Duration `envconfig:"OPENREEL_DEVICE_SESSION_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

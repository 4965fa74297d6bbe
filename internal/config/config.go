package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FIELDTRACK"

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Minio    MinioConfig
	Jobs     JobsConfig
	Geofence GeofenceConfig
}

// Load reads configuration from the environment. Call once at startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"FIELDTRACK_APP_ENV" default:"dev"`
	Port     string `envconfig:"FIELDTRACK_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"FIELDTRACK_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return a.Env == "dev"
}

type DBConfig struct {
	URL string `envconfig:"FIELDTRACK_DATABASE_URL" required:"true"`
}

type RedisConfig struct {
	Addr     string `envconfig:"FIELDTRACK_REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"FIELDTRACK_REDIS_PASSWORD"`
	DB       int    `envconfig:"FIELDTRACK_REDIS_DB" default:"0"`
}

type AuthConfig struct {
	// JWTSecret enables HS256 verification for locally issued tokens.
	JWTSecret string `envconfig:"FIELDTRACK_JWT_SECRET"`
	// JWKSURL, when set, enables RS256 verification against the identity
	// provider's published key set instead of the shared secret.
	JWKSURL string `envconfig:"FIELDTRACK_IDENTITY_JWKS_URL"`
}

type MinioConfig struct {
	Endpoint  string `envconfig:"FIELDTRACK_MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"FIELDTRACK_MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"FIELDTRACK_MINIO_SECRET_KEY" default:"minioadmin"`
	UseSSL    bool   `envconfig:"FIELDTRACK_MINIO_USE_SSL" default:"false"`
	Bucket    string `envconfig:"FIELDTRACK_MINIO_BUCKET" default:"fieldtrack-reports"`
}

type JobsConfig struct {
	Enabled           bool          `envconfig:"FIELDTRACK_JOBS_ENABLED" default:"true"`
	Interval          time.Duration `envconfig:"FIELDTRACK_JOBS_INTERVAL" default:"1h"`
	ExpiryWindowDays  int           `envconfig:"FIELDTRACK_EXPIRY_WINDOW_DAYS" default:"30"`
	LowStockThreshold int           `envconfig:"FIELDTRACK_LOW_STOCK_THRESHOLD" default:"10"`
}

type GeofenceConfig struct {
	RadiusMeters float64 `envconfig:"FIELDTRACK_GEOFENCE_RADIUS_METERS" default:"200"`
}

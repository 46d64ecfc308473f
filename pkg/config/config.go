package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Gate         GateConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	Icons        IconsConfig
	Catalog      CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Icons.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"REDCARPET_APP_ENV" required:"true"`
	Port         string   `envconfig:"REDCARPET_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"REDCARPET_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"REDCARPET_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"REDCARPET_CORS_ORIGINS" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REDCARPET_DB_DSN"`
	Driver string `envconfig:"REDCARPET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REDCARPET_DB_HOST"`
	LegacyPort     int    `envconfig:"REDCARPET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REDCARPET_DB_USER"`
	LegacyPassword string `envconfig:"REDCARPET_DB_PASSWORD"`
	LegacyName     string `envconfig:"REDCARPET_DB_NAME"`
	LegacySSLMode  string `envconfig:"REDCARPET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REDCARPET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REDCARPET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REDCARPET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REDCARPET_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"REDCARPET_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"REDCARPET_REDIS_URL"`
	Address      string        `envconfig:"REDCARPET_REDIS_ADDR"`
	Password     string        `envconfig:"REDCARPET_REDIS_PASSWORD"`
	DB           int           `envconfig:"REDCARPET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDCARPET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDCARPET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDCARPET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDCARPET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDCARPET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REDCARPET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REDCARPET_JWT_ISSUER" default:"red-carpet"`
	ExpirationMinutes int    `envconfig:"REDCARPET_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the gate token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REDCARPET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REDCARPET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REDCARPET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REDCARPET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REDCARPET_ARGON_KEY_LEN" default:"32"`
}

// GateConfig holds the bootstrap passwords used when the settings row has no
// hashes yet, plus the throttling applied to gate attempts.
type GateConfig struct {
	StorefrontPassword string        `envconfig:"REDCARPET_GATE_STOREFRONT_PASSWORD"`
	AdminPassword      string        `envconfig:"REDCARPET_GATE_ADMIN_PASSWORD"`
	RateLimitWindow    time.Duration `envconfig:"REDCARPET_GATE_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP     int           `envconfig:"REDCARPET_GATE_RATE_LIMIT_PER_IP" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"REDCARPET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"REDCARPET_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"REDCARPET_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"REDCARPET_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string        `envconfig:"REDCARPET_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string        `envconfig:"REDCARPET_GCS_PUBLIC_BASE_URL"`
	EmulatorHost  string        `envconfig:"REDCARPET_GCS_EMULATOR_HOST"`
	UploadTimeout time.Duration `envconfig:"REDCARPET_GCS_UPLOAD_TIMEOUT" default:"2m"`
	CacheControl  string        `envconfig:"REDCARPET_GCS_CACHE_CONTROL" default:"public, max-age=300"`
}

type MediaConfig struct {
	MaxUploadMB  int    `envconfig:"REDCARPET_MAX_UPLOAD_MB" default:"50"`
	ObjectPrefix string `envconfig:"REDCARPET_MEDIA_OBJECT_PREFIX" default:"media"`
}

// MaxUploadBytes converts the configured megabyte cap into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

// IconsConfig carries the PWA icon business choices. The size set and the
// maskable padding ratio follow the platform convention and are tunable.
type IconsConfig struct {
	Sizes        []int   `envconfig:"REDCARPET_ICON_SIZES" default:"72,96,128,144,152,192,384,512"`
	PaddingRatio float64 `envconfig:"REDCARPET_ICON_PADDING_RATIO" default:"0.1"`
	Background   string  `envconfig:"REDCARPET_ICON_BACKGROUND" default:"#FFFFFF"`
	ObjectPrefix string  `envconfig:"REDCARPET_ICON_OBJECT_PREFIX" default:"pwa-icons"`
	EnableWebP   bool    `envconfig:"REDCARPET_ICON_ENABLE_WEBP" default:"true"`
}

func (i IconsConfig) validate() error {
	if len(i.Sizes) == 0 {
		return fmt.Errorf("%s must list at least one size", EnvIconSizes)
	}
	for _, size := range i.Sizes {
		if size <= 0 {
			return fmt.Errorf("%s contains non-positive size %d", EnvIconSizes, size)
		}
	}
	if i.PaddingRatio < 0 || i.PaddingRatio >= 0.5 {
		return fmt.Errorf("%s must be in [0, 0.5), got %v", EnvIconPaddingRatio, i.PaddingRatio)
	}
	return nil
}

type CatalogConfig struct {
	PlaceholderImageURL string `envconfig:"REDCARPET_CATALOG_PLACEHOLDER_IMAGE" default:"/placeholder.svg"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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

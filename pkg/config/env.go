package config

// EnvPrefix is empty because every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "REDCARPET_APP_ENV"
	EnvPort      = "REDCARPET_APP_PORT"
	EnvLogLevel  = "REDCARPET_LOG_LEVEL"
	EnvDBDSN     = "REDCARPET_DB_DSN"
	EnvDBDriver  = "REDCARPET_DB_DRIVER"
	EnvDBHost    = "REDCARPET_DB_HOST"
	EnvDBUser    = "REDCARPET_DB_USER"
	EnvDBName    = "REDCARPET_DB_NAME"
	EnvRedisURL  = "REDCARPET_REDIS_URL"
	EnvJWTSecret = "REDCARPET_JWT_SECRET"
	EnvGCSBucket = "REDCARPET_GCS_BUCKET_NAME"

	EnvGateStorefrontPassword = "REDCARPET_GATE_STOREFRONT_PASSWORD"
	EnvGateAdminPassword      = "REDCARPET_GATE_ADMIN_PASSWORD"

	EnvIconSizes        = "REDCARPET_ICON_SIZES"
	EnvIconPaddingRatio = "REDCARPET_ICON_PADDING_RATIO"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

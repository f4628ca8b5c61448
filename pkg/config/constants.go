package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// envconfig tags so the prefix only matters for unprefixed fields.
const EnvPrefix = "banhtet"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load, tests, and error messages.
const (
	EnvAppEnv    = "BANHTET_APP_ENV"
	EnvPort      = "BANHTET_APP_PORT"
	EnvDBDSN     = "BANHTET_DB_DSN"
	EnvDBHost    = "BANHTET_DB_HOST"
	EnvDBUser    = "BANHTET_DB_USER"
	EnvDBName    = "BANHTET_DB_NAME"
	EnvRedisURL  = "BANHTET_REDIS_URL"
	EnvJWTSecret = "BANHTET_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

// EnvPrefix namespaces every configuration variable.
const EnvPrefix = "STOCKROOM"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Names of the env vars referenced directly in code and tests.
const (
	EnvAppEnv    = "STOCKROOM_APP_ENV"
	EnvAppPort   = "STOCKROOM_APP_PORT"
	EnvDBDSN     = "STOCKROOM_DB_DSN"
	EnvDBDriver  = "STOCKROOM_DB_DRIVER"
	EnvRedisURL  = "STOCKROOM_REDIS_URL"
	EnvJWTSecret = "STOCKROOM_JWT_SECRET"
	EnvJWTIssuer = "STOCKROOM_JWT_ISSUER"
	EnvJWTExp    = "STOCKROOM_JWT_EXPIRATION_MINUTES"
)

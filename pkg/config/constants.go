package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BAZARIKA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "BAZARIKA_APP_ENV"
	EnvPort       = "BAZARIKA_APP_PORT"
	EnvDBDSN      = "BAZARIKA_DB_DSN"
	EnvDBHost     = "BAZARIKA_DB_HOST"
	EnvDBUser     = "BAZARIKA_DB_USER"
	EnvDBName     = "BAZARIKA_DB_NAME"
	EnvRedisURL   = "BAZARIKA_REDIS_URL"
	EnvJWTSecret  = "BAZARIKA_JWT_SECRET"
	EnvJWTIssuer  = "BAZARIKA_JWT_ISSUER"
	EnvJWTExpMins = "BAZARIKA_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

// EnvPrefix is passed to envconfig; individual tags carry the full name.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load and the tests.
const (
	EnvAppEnv   = "SERVEASE_APP_ENV"
	EnvPort     = "SERVEASE_APP_PORT"
	EnvDBDSN    = "SERVEASE_DB_DSN"
	EnvDBHost   = "SERVEASE_DB_HOST"
	EnvDBUser   = "SERVEASE_DB_USER"
	EnvDBName   = "SERVEASE_DB_NAME"
	EnvRedisURL = "SERVEASE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

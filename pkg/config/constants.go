package config

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "THREADREEL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "THREADREEL_APP_ENV"
	EnvAppPort      = "THREADREEL_APP_PORT"
	EnvLogLevel     = "THREADREEL_LOG_LEVEL"
	EnvLogWarnStack = "THREADREEL_LOG_WARN_STACK"

	EnvDBDSN      = "THREADREEL_DB_DSN"
	EnvDBHost     = "THREADREEL_DB_HOST"
	EnvDBPort     = "THREADREEL_DB_PORT"
	EnvDBUser     = "THREADREEL_DB_USER"
	EnvDBPassword = "THREADREEL_DB_PASSWORD"
	EnvDBName     = "THREADREEL_DB_NAME"
	EnvDBSSLMode  = "THREADREEL_DB_SSLMODE"

	EnvRedisURL = "THREADREEL_REDIS_URL"

	EnvJWTSecret  = "THREADREEL_JWT_SECRET"
	EnvJWTIssuer  = "THREADREEL_JWT_ISSUER"
	EnvJWTExpMins = "THREADREEL_JWT_EXPIRATION_MINUTES"

	EnvRazorpayKeyID     = "THREADREEL_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "THREADREEL_RAZORPAY_KEY_SECRET"

	EnvUseSQLite   = "THREADREEL_USE_SQLITE"
	EnvAutoMigrate = "THREADREEL_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

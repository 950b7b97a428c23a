package config

const (
	EnvPrefix = "ADPH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "ADPH_APP_ENV"
	EnvPort        = "ADPH_APP_PORT"
	EnvDBDSN       = "ADPH_DB_DSN"
	EnvDBHost      = "ADPH_DB_HOST"
	EnvDBUser      = "ADPH_DB_USER"
	EnvDBName      = "ADPH_DB_NAME"
	EnvRedisURL    = "ADPH_REDIS_URL"
	EnvJWTSecret   = "ADPH_JWT_SECRET"
	EnvGCSBucket   = "ADPH_GCS_BUCKET_NAME"
	EnvStatusSet   = "ADPH_ORDER_STATUS_SET"
	EnvDeliveryFee = "ADPH_DELIVERY_FEE"
	EnvCORSOrigins = "ADPH_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

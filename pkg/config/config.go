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
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	GCP          GCPConfig
	GCS          GCSConfig
	SMTP         SMTPConfig
	Store        StoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.checkProd(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkProd rejects settings that are only acceptable outside prod.
func (c *Config) checkProd() error {
	if !c.App.IsProd() {
		return nil
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("%s must list explicit origins in prod", EnvCORSOrigins)
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"ADPH_APP_ENV" required:"true"`
	Port         string `envconfig:"ADPH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ADPH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADPH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADPH_DB_DSN"`
	Driver string `envconfig:"ADPH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADPH_DB_HOST"`
	LegacyPort     int    `envconfig:"ADPH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADPH_DB_USER"`
	LegacyPassword string `envconfig:"ADPH_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADPH_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADPH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADPH_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ADPH_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ADPH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADPH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADPH_REDIS_URL"`
	Address      string        `envconfig:"ADPH_REDIS_ADDR"`
	Password     string        `envconfig:"ADPH_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADPH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADPH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADPH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADPH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADPH_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"ADPH_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ADPH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ADPH_JWT_ISSUER" default:"adph-merch"`
	ExpirationMinutes int    `envconfig:"ADPH_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ADPH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ADPH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ADPH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ADPH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ADPH_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ADPH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ADPH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ADPH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	CheckoutWindow     time.Duration `envconfig:"ADPH_RATE_LIMIT_CHECKOUT_WINDOW" default:"10m"`
	CheckoutIPLimit    int           `envconfig:"ADPH_RATE_LIMIT_CHECKOUT_IP_LIMIT" default:"10"`
	CheckoutEmailLimit int           `envconfig:"ADPH_RATE_LIMIT_CHECKOUT_EMAIL_LIMIT" default:"5"`
	PublicRPS          float64       `envconfig:"ADPH_RATE_LIMIT_PUBLIC_RPS" default:"10"`
	PublicBurst        int           `envconfig:"ADPH_RATE_LIMIT_PUBLIC_BURST" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ADPH_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ADPH_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type GCPConfig struct {
	CredentialsJSON        string `envconfig:"ADPH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ADPH_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"ADPH_GCS_BUCKET_NAME" default:"gcash-receipts"`
	PublicBaseURL string `envconfig:"ADPH_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

type SMTPConfig struct {
	Host           string        `envconfig:"ADPH_SMTP_HOST" default:"smtp.gmail.com"`
	Port           int           `envconfig:"ADPH_SMTP_PORT" default:"465"`
	Secure         bool          `envconfig:"ADPH_SMTP_SECURE" default:"true"`
	SenderEmail    string        `envconfig:"ADPH_SENDER_EMAIL"`
	SenderPassword string        `envconfig:"ADPH_SENDER_PASSWORD"`
	SenderName     string        `envconfig:"ADPH_SENDER_NAME" default:"Arduino Day Philippines"`
	Timeout        time.Duration `envconfig:"ADPH_SMTP_TIMEOUT" default:"15s"`
}

// HasCredentials reports whether the sender mailbox is configured.
func (s SMTPConfig) HasCredentials() bool {
	return strings.TrimSpace(s.SenderEmail) != "" && s.SenderPassword != ""
}

type StoreConfig struct {
	StatusSet         string        `envconfig:"ADPH_ORDER_STATUS_SET" default:"extended"`
	StrictTransitions bool          `envconfig:"ADPH_ORDER_STRICT_TRANSITIONS" default:"false"`
	DeliveryFee       string        `envconfig:"ADPH_DELIVERY_FEE" default:"0"`
	ReceiptMaxBytes   int64         `envconfig:"ADPH_RECEIPT_MAX_BYTES" default:"5242880"`
	CatalogCacheTTL   time.Duration `envconfig:"ADPH_CATALOG_CACHE_TTL" default:"1m"`
	CartTTL           time.Duration `envconfig:"ADPH_CART_TTL" default:"720h"`
	IdempotencyTTL    time.Duration `envconfig:"ADPH_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
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

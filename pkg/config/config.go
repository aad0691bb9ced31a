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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Delivery     DeliveryConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SERVEASE_APP_ENV" required:"true"`
	Port         string `envconfig:"SERVEASE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SERVEASE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SERVEASE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SERVEASE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SERVEASE_DB_DSN"`
	Driver string `envconfig:"SERVEASE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SERVEASE_DB_HOST"`
	LegacyPort     int    `envconfig:"SERVEASE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SERVEASE_DB_USER"`
	LegacyPassword string `envconfig:"SERVEASE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SERVEASE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SERVEASE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SERVEASE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SERVEASE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SERVEASE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SERVEASE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SERVEASE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SERVEASE_REDIS_ADDR"`
	Password     string        `envconfig:"SERVEASE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SERVEASE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SERVEASE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SERVEASE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SERVEASE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SERVEASE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SERVEASE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"SERVEASE_CART_SNAPSHOT_TTL" default:"720h"`
}

type DeliveryConfig struct {
	Policy         string `envconfig:"SERVEASE_DELIVERY_POLICY" default:"free_above"`
	FlatFeeCents   int64  `envconfig:"SERVEASE_DELIVERY_FLAT_FEE_CENTS" default:"5000"`
	FreeAboveCents int64  `envconfig:"SERVEASE_DELIVERY_FREE_ABOVE_CENTS" default:"100000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SERVEASE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SERVEASE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SERVEASE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SERVEASE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SERVEASE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"SERVEASE_PUBSUB_ORDERS_TOPIC" default:"svz-order-events"`
	OrdersSubscription string `envconfig:"SERVEASE_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"SERVEASE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"SERVEASE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"SERVEASE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"SERVEASE_OUTBOX_RETENTION_DAYS" default:"14"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"SERVEASE_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"SERVEASE_RATE_LIMIT_PER_WINDOW" default:"120"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"SERVEASE_CRON_INTERVAL" default:"1h"`
	OrderExpiryDays int           `envconfig:"SERVEASE_CRON_ORDER_EXPIRY_DAYS" default:"7"`
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

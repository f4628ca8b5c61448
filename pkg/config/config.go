package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	AdminRoot     AdminRootConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"BANHTET_APP_ENV" required:"true"`
	Port         string `envconfig:"BANHTET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BANHTET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BANHTET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BANHTET_DB_DSN"`
	Driver string `envconfig:"BANHTET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BANHTET_DB_HOST"`
	LegacyPort     int    `envconfig:"BANHTET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BANHTET_DB_USER"`
	LegacyPassword string `envconfig:"BANHTET_DB_PASSWORD"`
	LegacyName     string `envconfig:"BANHTET_DB_NAME"`
	LegacySSLMode  string `envconfig:"BANHTET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BANHTET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BANHTET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BANHTET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BANHTET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BANHTET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BANHTET_REDIS_ADDR"`
	Password     string        `envconfig:"BANHTET_REDIS_PASSWORD"`
	DB           int           `envconfig:"BANHTET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BANHTET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BANHTET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BANHTET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BANHTET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BANHTET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BANHTET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BANHTET_JWT_ISSUER" default:"banhtet-backend"`
	ExpirationMinutes int    `envconfig:"BANHTET_JWT_EXPIRATION_MINUTES" default:"720"`
	CookieName        string `envconfig:"BANHTET_ADMIN_COOKIE_NAME" default:"banhtet_admin_session"`
	CookieSecure      bool   `envconfig:"BANHTET_ADMIN_COOKIE_SECURE" default:"true"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BANHTET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BANHTET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BANHTET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BANHTET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BANHTET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BANHTET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BANHTET_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BANHTET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	CookieName string        `envconfig:"BANHTET_CART_COOKIE_NAME" default:"banhtet_cart"`
	TTL        time.Duration `envconfig:"BANHTET_CART_TTL" default:"720h"`
	MaxItemQty int           `envconfig:"BANHTET_CART_MAX_ITEM_QTY" default:"99"`
}

// AdminRootConfig holds the optional break-glass credential pair. When both
// values are set, that pair can log in even with an empty admin_users table.
type AdminRootConfig struct {
	Email    string `envconfig:"BANHTET_ADMIN_ROOT_EMAIL"`
	Password string `envconfig:"BANHTET_ADMIN_ROOT_PASSWORD"`
}

func (a AdminRootConfig) Enabled() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BANHTET_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BANHTET_AUTO_MIGRATE" default:"false"`
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

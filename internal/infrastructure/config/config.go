package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends accepted by SESSION_BACKEND.
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
)

// Store backends accepted by MOCKAPI_STORE.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	MockAPI MockAPIConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig describes how the client reaches the admin API.
type APIConfig struct {
	BaseURL     string        `env:"API_URL,           default=http://localhost:8000/api"`
	Timeout     time.Duration `env:"API_TIMEOUT,       default=30s"`
	TokenKey    string        `env:"AUTH_TOKEN_KEY,    default=auth_token"`
	UserKey     string        `env:"AUTH_USER_KEY,     default=auth_user"`
	TokenPrefix string        `env:"AUTH_TOKEN_PREFIX, default=Bearer"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND, default=file"`
	Dir     string `env:"SESSION_DIR"`
}

type MockAPIConfig struct {
	Port      string        `env:"MOCKAPI_PORT,       default=8000"`
	JWTSecret string        `env:"MOCKAPI_JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"MOCKAPI_TOKEN_TTL,  default=24h"`
	OTPTTL    time.Duration `env:"MOCKAPI_OTP_TTL,    default=5m"`
	Store     string        `env:"MOCKAPI_STORE,      default=memory"`
	OTPStore  string        `env:"MOCKAPI_OTP_STORE,  default=memory"`
	Seed      bool          `env:"MOCKAPI_SEED,       default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=siren_admin"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionMemory, SessionFile, SessionRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	switch c.MockAPI.Store {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("unknown MOCKAPI_STORE %q", c.MockAPI.Store)
	}
	switch c.MockAPI.OTPStore {
	case StoreMemory, SessionRedis:
	default:
		return fmt.Errorf("unknown MOCKAPI_OTP_STORE %q", c.MockAPI.OTPStore)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

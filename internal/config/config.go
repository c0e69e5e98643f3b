package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port       string
	Production bool

	MongoURI string
	MongoDB  string
	Mongo    MongoOptions

	JWTSecret string

	RedisAddr       string
	RateLimitPerMin int

	RabbitURL string
}

// MongoOptions bounds the shared connection pool and how long store
// operations wait before failing.
type MongoOptions struct {
	MaxPoolSize     uint64
	MinPoolSize     uint64
	ConnectTimeout  time.Duration
	SocketTimeout   time.Duration
	SelectTimeout   time.Duration
	MaxConnIdleTime time.Duration
	RetryWrites     bool
	RetryReads      bool
}

// DefaultMongo returns the pool and timeout settings used when no env
// overrides are present. Tests reuse these against throwaway instances.
func DefaultMongo() MongoOptions {
	return MongoOptions{
		MaxPoolSize:     50,
		MinPoolSize:     10,
		ConnectTimeout:  30 * time.Second,
		SocketTimeout:   75 * time.Second,
		SelectTimeout:   30 * time.Second,
		MaxConnIdleTime: 60 * time.Second,
		RetryWrites:     true,
		RetryReads:      true,
	}
}

// Load reads configuration from the environment. The Mongo URI and JWT
// secret have no usable defaults; missing either is an error the caller
// should treat as fatal.
func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("APP_PORT", "8080"),
		Production:      os.Getenv("APP_ENV") == "production",
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         getenv("MONGO_DB", "gist_tracker"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RateLimitPerMin: intenv("RATE_LIMIT_PER_MIN", 10),
		RabbitURL:       os.Getenv("RABBIT_URL"),
		Mongo: MongoOptions{
			MaxPoolSize:     uintenv("MONGO_MAX_POOL", 50),
			MinPoolSize:     uintenv("MONGO_MIN_POOL", 10),
			ConnectTimeout:  secenv("MONGO_CONNECT_TIMEOUT_S", 30),
			SocketTimeout:   secenv("MONGO_SOCKET_TIMEOUT_S", 75),
			SelectTimeout:   secenv("MONGO_SELECT_TIMEOUT_S", 30),
			MaxConnIdleTime: secenv("MONGO_IDLE_TIMEOUT_S", 60),
			RetryWrites:     true,
			RetryReads:      true,
		},
	}
	if cfg.MongoURI == "" {
		return cfg, errors.New("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

// A malformed numeric env value falls back to the default rather than
// zero: "MONGO_MAX_POOL=junk" must not mean an unbounded pool.
func intenv(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func uintenv(k string, def uint64) uint64 {
	if v, err := strconv.ParseUint(os.Getenv(k), 10, 64); err == nil {
		return v
	}
	return def
}

func secenv(k string, def int) time.Duration {
	return time.Duration(intenv(k, def)) * time.Second
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadRequiresMongoURIAndSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{
		"APP_PORT", "MONGO_DB", "RATE_LIMIT_PER_MIN",
		"MONGO_MAX_POOL", "MONGO_MIN_POOL",
		"MONGO_CONNECT_TIMEOUT_S", "MONGO_SOCKET_TIMEOUT_S",
		"MONGO_SELECT_TIMEOUT_S", "MONGO_IDLE_TIMEOUT_S",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gist_tracker", cfg.MongoDB)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.Equal(t, DefaultMongo(), cfg.Mongo)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_PER_MIN", "zzz")
	t.Setenv("MONGO_MAX_POOL", "junk")
	t.Setenv("MONGO_SOCKET_TIMEOUT_S", "abc")
	t.Setenv("MONGO_IDLE_TIMEOUT_S", "-")

	cfg, err := Load()
	require.NoError(t, err)
	// garbage must not mean zero: an unbounded pool or no socket timeout
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.Equal(t, uint64(50), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, 75*time.Second, cfg.Mongo.SocketTimeout)
	assert.Equal(t, 60*time.Second, cfg.Mongo.MaxConnIdleTime)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_MAX_POOL", "5")
	t.Setenv("MONGO_CONNECT_TIMEOUT_S", "7")
	t.Setenv("RATE_LIMIT_PER_MIN", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, 7*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 2, cfg.RateLimitPerMin)
}

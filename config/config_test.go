package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	vars := []string{
		"MONGO_URI", "MONGO_DB", "REDIS_ADDR", "PORT",
		"API_BASE", "ELEVATEAI_BASE_URL", "ELEVATEAI_API_TOKEN",
		"CORS_ALLOWED_ORIGINS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "dispatchqa", cfg.MongoDatabase)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.UpstreamAPIBase)
	assert.Empty(t, cfg.ElevateAIBaseURL)
	assert.Equal(t, "*", cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("MONGO_DB", "qa_test")
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE", "https://qa.example.com/api/")
	t.Setenv("ELEVATEAI_BASE_URL", "https://api.elevateai.com/v1")
	t.Setenv("ELEVATEAI_API_TOKEN", "test-token")

	cfg := Load()

	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "qa_test", cfg.MongoDatabase)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "https://qa.example.com/api/", cfg.UpstreamAPIBase)
	assert.Equal(t, "https://api.elevateai.com/v1", cfg.ElevateAIBaseURL)
	assert.Equal(t, "test-token", cfg.ElevateAIAPIToken)
}

func TestRedisOptionsPlainAddr(t *testing.T) {
	cfg := &Config{RedisAddr: "localhost:6379"}

	opts, err := cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
}

func TestRedisOptionsURL(t *testing.T) {
	cfg := &Config{RedisAddr: "redis://:hunter2@cache.internal:6380/2"}

	opts, err := cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "hunter2", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestRedisOptionsBadURL(t *testing.T) {
	cfg := &Config{RedisAddr: "http://not-redis:6379"}

	_, err := cfg.RedisOptions()
	assert.Error(t, err)
}

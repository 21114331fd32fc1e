package config

import (
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	HTTPPort      string

	// Upstream QA backend the proxy gateway forwards to
	UpstreamAPIBase string

	// ElevateAI transcription service
	ElevateAIBaseURL  string
	ElevateAIAPIToken string

	AllowedOrigins string
}

func Load() *Config {
	return &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DB", "dispatchqa"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:          getEnv("PORT", "8080"),
		UpstreamAPIBase:   getEnv("API_BASE", ""),
		ElevateAIBaseURL:  getEnv("ELEVATEAI_BASE_URL", ""),
		ElevateAIAPIToken: getEnv("ELEVATEAI_API_TOKEN", ""),
		AllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// RedisOptions resolves RedisAddr into client options. Accepts both a bare
// host:port and a redis:// / rediss:// URL (passwords and DB numbers come
// along for free on the URL form).
func (c *Config) RedisOptions() (*redis.Options, error) {
	if strings.Contains(c.RedisAddr, "://") {
		return redis.ParseURL(c.RedisAddr)
	}
	return &redis.Options{Addr: c.RedisAddr}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

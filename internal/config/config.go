package config

import (
	"time"

	"github.com/spf13/viper"
)

func Load() error {
	// Server
	viper.SetDefault("DASHBOARD_ADDR", ":3000")

	// Forecasting backend
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8080")
	viper.SetDefault("BACKEND_TIMEOUT", "10s")
	viper.SetDefault("UNAUTHORIZED_POLICY", "empty") // "empty" or "error"

	// Query cache
	viper.SetDefault("CACHE_BACKEND", "memory") // "memory" or "redis"
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")

	// Alerts feed
	viper.SetDefault("ALERTS_POLL_INTERVAL", "60s")

	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()
	return nil
}

func ListenAddr() string                { return viper.GetString("DASHBOARD_ADDR") }
func BackendBaseURL() string            { return viper.GetString("BACKEND_BASE_URL") }
func BackendTimeout() time.Duration     { return viper.GetDuration("BACKEND_TIMEOUT") }
func UnauthorizedPolicy() string        { return viper.GetString("UNAUTHORIZED_POLICY") }
func CacheBackend() string              { return viper.GetString("CACHE_BACKEND") }
func CacheTTL() time.Duration           { return viper.GetDuration("CACHE_TTL") }
func RedisAddr() string                 { return viper.GetString("REDIS_ADDR") }
func AlertsPollInterval() time.Duration { return viper.GetDuration("ALERTS_POLL_INTERVAL") }
func LogLevel() string                  { return viper.GetString("LOG_LEVEL") }

package config

import (
	"restoran_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads a fresh Config from the environment.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:        getEnvAsString("APP_NAME", "Restoran"),
			Environment:    getEnvAsString("APP_ENV", "development"),
			Port:           getEnvAsString("APP_PORT", ":5000"),
			FrontendURL:    getEnvAsString("FRONTEND_URL", "http://localhost:3000"),
			ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Driver:       getEnvAsString("STORE_DRIVER", "postgres"),
			URL:          getEnvAsString("DATABASE_URL", ""),
			Host:         getEnvAsString("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnvAsString("DB_USER", "postgres"),
			Password:     getEnvAsString("DB_PASSWORD", "password"),
			Name:         getEnvAsString("DB_NAME", "restoran_db"),
			SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", true),
			SeedFile:     getEnvAsString("SEED_FILE", ""),
			SlowQueryLog: getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry:  getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
			RefreshTokenSecret: getEnvAsString("AUTH_REFRESH_TOKEN_SECRET", "default_refresh_secret"),
			RefreshTokenExpiry: getEnvAsTimeDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			ResetTokenExpiry:   getEnvAsTimeDuration("AUTH_RESET_TOKEN_EXPIRY", time.Hour),
			CookieDomain:       getEnvAsString("AUTH_COOKIE_DOMAIN", ""),
		},
		Email: &structs.EmailConfig{
			ApiKey:            getEnvAsString("RESEND_API_KEY", ""),
			From:              getEnvAsString("EMAIL_FROM", "Restoran <bookings@restoran.local>"),
			RestaurantEmail:   getEnvAsString("RESTAURANT_EMAIL", "bookings@restoran.local"),
			RestaurantName:    getEnvAsString("RESTAURANT_NAME", "Restoran"),
			RestaurantAddress: getEnvAsString("RESTAURANT_ADDRESS", "20/41, Kaaliannan extension, Gobi"),
		},
		Cache: &structs.CacheConfig{
			Enabled:         getEnvAsBool("CACHE_ENABLED", true),
			Address:         getEnvAsString("REDIS_ADDR", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:  getEnvAsBool("RATE_LIMIT_ENABLED", true),
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getEnvAsTimeDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

			TrustedProxies: getEnvAsSlice("RATE_LIMIT_TRUSTED_PROXIES", nil),
		},
		Notify: &structs.NotifyConfig{
			Workers:     getEnvAsInt("NOTIFY_WORKERS", 2),
			QueueSize:   getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
			SendTimeout: getEnvAsTimeDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second),
		},
		Events: &structs.EventsConfig{
			URL:      getEnvAsString("RABBITMQ_URL", ""),
			Exchange: getEnvAsString("RABBITMQ_EXCHANGE", "restoran.events"),
		},
	}
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}

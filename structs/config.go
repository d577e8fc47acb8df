package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Notify    *NotifyConfig
	Events    *EventsConfig
}

type ServerConfig struct {
	AppName        string        // Restoran
	Environment    string        // development, production
	Port           string        // :5000
	FrontendURL    string        // used in password reset links
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver       string // postgres, memory
	URL          string // takes precedence over the discrete fields
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	AutoMigrate  bool
	SeedFile     string
	SlowQueryLog time.Duration
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	ResetTokenExpiry   time.Duration
	CookieDomain       string
}

type EmailConfig struct {
	ApiKey            string
	From              string
	RestaurantEmail   string // operator inbox for booking and contact alerts
	RestaurantName    string
	RestaurantAddress string
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration

	// Peers allowed to report the client address through X-Forwarded-For.
	// Addresses or CIDR ranges; empty means forwarding headers are ignored.
	TrustedProxies []string
}

type NotifyConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type EventsConfig struct {
	URL      string // empty disables the broker
	Exchange string
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Storage StorageConfig
	HTTP    HTTPConfig
	Route   RouteConfig
	Engine  EngineConfig
	Janitor JanitorConfig
	Notify  NotifyConfig
	Feed    FeedConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// StorageConfig selects and parameterizes the schedule document store.
type StorageConfig struct {
	Backend   string // "file", "postgres" or "redis"
	StateFile string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type HTTPConfig struct {
	Addr string
}

// RouteConfig is the immutable route geometry: the two stop coordinates.
// The nominal length lives in the persisted settings document.
type RouteConfig struct {
	OriginName   string
	OriginLat    float64
	OriginLon    float64
	TerminusName string
	TerminusLat  float64
	TerminusLon  float64
}

type EngineConfig struct {
	FixFreshness time.Duration
}

// JanitorConfig controls the sweep removing past override and holiday
// entries. A zero interval disables the janitor.
type JanitorConfig struct {
	Interval      time.Duration
	RetentionDays int
}

// NotifyConfig configures the best-effort fan-out collaborators.
type NotifyConfig struct {
	NATSURL    string
	WebhookURL string
}

// FeedConfig configures the optional NATS position feed. An empty
// subject disables the consumer.
type FeedConfig struct {
	Subject string
}

type MetricsConfig struct {
	Addr string // empty disables the metrics server
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "file"),
			StateFile:     getEnv("STATE_FILE", "schedule.json"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			DBName:        getEnv("DB_NAME", "shuttleroute"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getIntEnv("REDIS_DB", 0),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":3000"),
		},
		Route: RouteConfig{
			OriginName:   getEnv("ROUTE_ORIGIN_NAME", "Riverside"),
			OriginLat:    getFloatEnv("ROUTE_ORIGIN_LAT", 50.976412),
			OriginLon:    getFloatEnv("ROUTE_ORIGIN_LON", 44.777647),
			TerminusName: getEnv("ROUTE_TERMINUS_NAME", "Hillcrest"),
			TerminusLat:  getFloatEnv("ROUTE_TERMINUS_LAT", 51.082652),
			TerminusLon:  getFloatEnv("ROUTE_TERMINUS_LON", 44.816874),
		},
		Engine: EngineConfig{
			FixFreshness: getDurationEnv("FIX_FRESHNESS", 5*time.Minute),
		},
		Janitor: JanitorConfig{
			Interval:      getDurationEnv("JANITOR_INTERVAL", 24*time.Hour),
			RetentionDays: getIntEnv("JANITOR_RETENTION_DAYS", 7),
		},
		Notify: NotifyConfig{
			NATSURL:    getEnv("NATS_URL", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Feed: FeedConfig{
			Subject: getEnv("POSITION_FEED_SUBJECT", ""),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", "shuttleroute.log"),
		},
	}

	return cfg, nil
}

// Validate checks the parts of the configuration that cannot be defaulted.
func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case "file":
		if c.StateFile == "" {
			return fmt.Errorf("STATE_FILE must be set for the file backend")
		}
	case "postgres":
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME must be set for the postgres backend")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR must be set for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}
	return nil
}

func (c *StorageConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

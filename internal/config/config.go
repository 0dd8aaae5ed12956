package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type AppConfig struct {
	ENV string
}

type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GRPCConfig struct {
	Host string
	Port string
}

// SwipeConfig holds the action policy knobs.
type SwipeConfig struct {
	UndoWindow          time.Duration
	ActionsPerMinute    int
	DailyLikeLimit      int
	DailySuperLikeLimit int
	MLWeightThreshold   float64
	BehaviorLookback    time.Duration
	DefaultTimezone     string
	LikeCountTTL        time.Duration
	EventsChannel       string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

type Config struct {
	Log     LogConfig
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	GRPC    GRPCConfig
	Swipe   SwipeConfig
	Tracing TracingConfig
}

func New() *Config {
	cfg := &Config{}

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "interest_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.DSN = getEnvDefault("DB_DSN", os.Getenv("MYSQL_DSN"))
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "muzz")

		switch cfg.DB.Driver {
		case "postgres":
			cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name,
			)
		case "sqlite":
			cfg.DB.DSN = "file:" + cfg.DB.Name + ".db?_foreign_keys=on"
		default:
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// gRPC
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// Swipe policy
	cfg.Swipe.UndoWindow = time.Duration(getEnvInt("UNDO_WINDOW_SECONDS", 30)) * time.Second
	cfg.Swipe.ActionsPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 10)
	cfg.Swipe.DailyLikeLimit = getEnvInt("DAILY_LIKE_LIMIT", 100)
	cfg.Swipe.DailySuperLikeLimit = getEnvInt("DAILY_SUPER_LIKE_LIMIT", 5)
	cfg.Swipe.MLWeightThreshold = getEnvFloat("ML_WEIGHT_THRESHOLD", 0.7)
	cfg.Swipe.BehaviorLookback = time.Duration(getEnvInt("BEHAVIOR_LOOKBACK_DAYS", 90)) * 24 * time.Hour
	cfg.Swipe.DefaultTimezone = getEnvDefault("DEFAULT_TIMEZONE", "UTC")
	cfg.Swipe.LikeCountTTL = getEnvDuration("LIKE_COUNT_TTL", time.Hour)
	cfg.Swipe.EventsChannel = getEnvDefault("EVENTS_CHANNEL", "interest.events")

	// Tracing
	cfg.Tracing.Enabled = isTruthy(os.Getenv("TRACING_ENABLED"))
	cfg.Tracing.ServiceName = getEnvDefault("TRACING_SERVICE_NAME", "muzz-interest")

	return cfg
}

// DefaultLocation resolves Swipe.DefaultTimezone, falling back to UTC.
func (c *Config) DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(c.Swipe.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

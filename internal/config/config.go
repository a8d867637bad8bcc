package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr string
	APIKey   string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Snapshot SnapshotConfig

	RedisAddr string
	CacheTTL  time.Duration

	SeedDemoData bool
}

// SnapshotConfig controls the snapshot pipeline.
type SnapshotConfig struct {
	OutputDir      string
	TargetCurrency string
	Interval       time.Duration
	Jobs           []string
}

// Load loads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_SERVICE", "outstaffer-reporting")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "reporting")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 20)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 3600)
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", 600)
	v.SetDefault("SNAPSHOT_OUTPUT_DIR", "./snapshots")
	v.SetDefault("SNAPSHOT_TARGET_CURRENCY", "AUD")
	v.SetDefault("SNAPSHOT_INTERVAL", "24h")
	v.SetDefault("SNAPSHOT_JOBS", "")
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("SEED_DEMO_DATA", false)

	return Config{
		AppName:           v.GetString("APP_SERVICE"),
		AppVersion:        v.GetString("APP_VERSION"),
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		APIKey:            strings.TrimSpace(v.GetString("REPORTING_API_KEY")),
		OTLPEndpoint:      v.GetString("OTLP_ENDPOINT"),
		DBType:            v.GetString("DATABASE_TYPE"),
		DBHost:            v.GetString("DATABASE_HOST"),
		DBPort:            v.GetString("DATABASE_PORT"),
		DBName:            v.GetString("DATABASE_NAME"),
		DBUser:            v.GetString("DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE_TIME"),
		Snapshot: SnapshotConfig{
			OutputDir:      v.GetString("SNAPSHOT_OUTPUT_DIR"),
			TargetCurrency: strings.ToUpper(v.GetString("SNAPSHOT_TARGET_CURRENCY")),
			Interval:       v.GetDuration("SNAPSHOT_INTERVAL"),
			Jobs:           splitList(v.GetString("SNAPSHOT_JOBS")),
		},
		RedisAddr: strings.TrimSpace(v.GetString("REDIS_ADDR")),
		CacheTTL:  v.GetDuration("CACHE_TTL"),

		SeedDemoData: v.GetBool("SEED_DEMO_DATA"),
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

package config

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
	Explain  ExplainConfig
	Batch    BatchConfig
	Storage  StorageConfig
	Drive    DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled               bool
	RedisURL              string
	RedisHost             string
	RedisPort             string
	RedisPassword         string
	RedisDB               int
	ExplanationTTLSeconds int
}

// ForecastConfig holds engine defaults that callers may override per request.
type ForecastConfig struct {
	HorizonDays    int
	RequireHistory bool
}

// ExplainConfig points at an OpenAI-compatible chat-completions deployment.
// An empty Endpoint disables the explanation service.
type ExplainConfig struct {
	Endpoint       string
	APIKey         string
	APIVersion     string
	Deployment     string
	TimeoutSeconds int
}

type BatchConfig struct {
	Workers       int
	RetryAttempts int
	// Schedule is a five-field cron expression; empty disables the scheduled refresh.
	Schedule string
	Owners   []string
}

// StorageConfig selects where workbook snapshots are archived.
type StorageConfig struct {
	Driver    string
	LocalDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// DriveConfig names the shared folder retailers drop workbook snapshots into.
type DriveConfig struct {
	CredentialsJSON string
	FolderPath      string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func fromViper(v *viper.Viper) *Config {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smartstock")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_EXPLANATION_TTL_SECONDS", 3600)
	v.SetDefault("FORECAST_HORIZON_DAYS", 7)
	v.SetDefault("ANOMALY_REQUIRE_HISTORY", false)
	v.SetDefault("EXPLAIN_ENDPOINT", "")
	v.SetDefault("EXPLAIN_API_KEY", "")
	v.SetDefault("EXPLAIN_API_VERSION", "2024-02-01")
	v.SetDefault("EXPLAIN_DEPLOYMENT", "gpt-4o-mini")
	v.SetDefault("EXPLAIN_TIMEOUT_SECONDS", 30)
	v.SetDefault("BATCH_WORKERS", 4)
	v.SetDefault("BATCH_RETRY_ATTEMPTS", 2)
	v.SetDefault("BATCH_SCHEDULE", "")
	v.SetDefault("BATCH_OWNERS", "")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "./data/snapshots")
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("GOOGLE_DRIVE_FOLDER", "smartstock/snapshots")

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:               v.GetBool("CACHE_ENABLED"),
			RedisURL:              v.GetString("REDIS_URL"),
			RedisHost:             v.GetString("REDIS_HOST"),
			RedisPort:             v.GetString("REDIS_PORT"),
			RedisPassword:         v.GetString("REDIS_PASSWORD"),
			RedisDB:               v.GetInt("REDIS_DB"),
			ExplanationTTLSeconds: v.GetInt("CACHE_EXPLANATION_TTL_SECONDS"),
		},
		Forecast: ForecastConfig{
			HorizonDays:    v.GetInt("FORECAST_HORIZON_DAYS"),
			RequireHistory: v.GetBool("ANOMALY_REQUIRE_HISTORY"),
		},
		Explain: ExplainConfig{
			Endpoint:       v.GetString("EXPLAIN_ENDPOINT"),
			APIKey:         v.GetString("EXPLAIN_API_KEY"),
			APIVersion:     v.GetString("EXPLAIN_API_VERSION"),
			Deployment:     v.GetString("EXPLAIN_DEPLOYMENT"),
			TimeoutSeconds: v.GetInt("EXPLAIN_TIMEOUT_SECONDS"),
		},
		Batch: BatchConfig{
			Workers:       v.GetInt("BATCH_WORKERS"),
			RetryAttempts: v.GetInt("BATCH_RETRY_ATTEMPTS"),
			Schedule:      strings.TrimSpace(v.GetString("BATCH_SCHEDULE")),
			Owners:        splitList(v.GetString("BATCH_OWNERS")),
		},
		Storage: StorageConfig{
			Driver:    v.GetString("STORAGE_DRIVER"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderPath:      v.GetString("GOOGLE_DRIVE_FOLDER"),
		},
	}
}

// Enabled reports whether an explanation endpoint is configured.
func (c ExplainConfig) Enabled() bool {
	return c.Endpoint != ""
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

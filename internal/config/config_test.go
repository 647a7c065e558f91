package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "inventory_test")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("FORECAST_HORIZON_DAYS", "14")
	t.Setenv("ANOMALY_REQUIRE_HISTORY", "true")
	t.Setenv("EXPLAIN_ENDPOINT", "https://llm.example.test")
	t.Setenv("EXPLAIN_DEPLOYMENT", "test-deployment")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("BATCH_SCHEDULE", "0 */6 * * *")
	t.Setenv("BATCH_OWNERS", "owner-1, owner-2,,")

	cfg := fromViper(viper.New())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "inventory_test", cfg.Database.DBName)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://localhost:6379/2", cfg.Cache.RedisURL)
	assert.Equal(t, 14, cfg.Forecast.HorizonDays)
	assert.True(t, cfg.Forecast.RequireHistory)
	assert.Equal(t, "https://llm.example.test", cfg.Explain.Endpoint)
	assert.Equal(t, "test-deployment", cfg.Explain.Deployment)
	assert.True(t, cfg.Explain.Enabled())
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "0 */6 * * *", cfg.Batch.Schedule)
	assert.Equal(t, []string{"owner-1", "owner-2"}, cfg.Batch.Owners)
}

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "smartstock", cfg.Database.DBName)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3600, cfg.Cache.ExplanationTTLSeconds)
	assert.Equal(t, 7, cfg.Forecast.HorizonDays)
	assert.False(t, cfg.Forecast.RequireHistory)
	assert.False(t, cfg.Explain.Enabled())
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 2, cfg.Batch.RetryAttempts)
	assert.Empty(t, cfg.Batch.Schedule)
	assert.Empty(t, cfg.Batch.Owners)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "./data/snapshots", cfg.Storage.LocalDir)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "smartstock/snapshots", cfg.Drive.FolderPath)
	assert.Empty(t, cfg.Drive.CredentialsJSON)
}

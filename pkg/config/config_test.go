package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, 5*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, "retailops-api", cfg.DB.ApplicationName)
	assert.Equal(t, 5, cfg.RateLimit.LoginMax)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 3, cfg.Sales.MaxRetries)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("DB_PORT", "6543")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("RATE_LIMIT_WINDOW_SECONDS", "30")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("DB_FORCE_IPV4", "true")

	cfg := fromViper(v)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.DB.ForceIPv4)
	require.NoError(t, cfg.Validate())
}

func TestValidate_SecretObligatorioEnProduccion(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	cfg := fromViper(v)
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "retail", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/retail?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "ComptaVision API", cfg.App.Name)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, 7*24*60, cfg.JWT.Expiration)
	assert.Equal(t, 365, cfg.License.DefaultTermDays)
	assert.Equal(t, 5, cfg.License.DefaultSeats)
	assert.Equal(t, "STARTER", cfg.License.DefaultPlan)
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
	assert.Equal(t, 15, cfg.Login.LockMinutes)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.DB.AutoMigrate)
	require.NoError(t, cfg.Validate())
}

func TestFromViper_LeeVariables(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "staging")
	v.Set("HTTP_PORT", "8080")
	v.Set("FRONTEND_URL", "https://app.comptavision.com/")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("LOGIN_MAX_ATTEMPTS", "no-es-numero")

	cfg := fromViper(v)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "https://app.comptavision.com", cfg.App.FrontendURL)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.Login.MaxAttempts)
}

func TestValidate_SecretoEnProduccion(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	assert.ErrorIs(t, fromViper(v).Validate(), ErrInsecureJWTSecret)

	v.Set("JWT_SECRET", "  ")
	assert.ErrorIs(t, fromViper(v).Validate(), ErrInsecureJWTSecret)

	v.Set("JWT_SECRET", "un-secreto-largo-y-aleatorio")
	assert.NoError(t, fromViper(v).Validate())
}

func TestValidate_ValoresNoPositivos(t *testing.T) {
	v := viper.New()
	v.Set("JWT_EXPIRATION_MINUTES", "0")
	assert.Error(t, fromViper(v).Validate())

	v = viper.New()
	v.Set("LICENSE_DEFAULT_SEATS", "0")
	assert.Error(t, fromViper(v).Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "cv", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/cv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x/y"
	assert.Equal(t, "postgres://x/y", c.ConnectionString())
}

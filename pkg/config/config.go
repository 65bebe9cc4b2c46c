package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// placeholderSecret es el valor de ejemplo que nunca debe llegar a producción.
const placeholderSecret = "change-me-in-prod"

// ErrInsecureJWTSecret se devuelve en producción si JWT_SECRET falta o es el valor de ejemplo.
var ErrInsecureJWTSecret = errors.New("config: JWT_SECRET debe tener un valor fuerte en producción")

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	License LicenseConfig
	Redis   RedisConfig
	Login   LoginConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, test, staging, production
	Name        string
	Version     string
	LogLevel    string
	FrontendURL string // origen permitido por CORS, sin slash final
}

// IsProduction informa si la app corre en producción.
func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// IsDevelopment informa si la app corre en desarrollo (errores internos visibles).
func (c AppConfig) IsDevelopment() bool { return c.Env == "development" }

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Railway/Render).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LicenseConfig valores por defecto al emitir licencias.
type LicenseConfig struct {
	DefaultTermDays int
	DefaultSeats    int
	DefaultPlan     string
}

// RedisConfig conexión a Redis. Addr vacío desactiva las funciones que lo usan.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled informa si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// LoginConfig límites de intentos fallidos de login.
type LoginConfig struct {
	MaxAttempts int
	LockMinutes int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "ComptaVision API"),
			Version:     getString(v, "APP_VERSION", "1.0.0"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			FrontendURL: strings.TrimSuffix(getString(v, "FRONTEND_URL", "http://localhost:5173"), "/"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "comptavision_db"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:     strings.TrimSpace(getString(v, "JWT_SECRET", placeholderSecret)),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 7*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "comptavision"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 5000),
		},
		License: LicenseConfig{
			DefaultTermDays: getInt(v, "LICENSE_DEFAULT_TERM_DAYS", 365),
			DefaultSeats:    getInt(v, "LICENSE_DEFAULT_SEATS", 5),
			DefaultPlan:     getString(v, "LICENSE_DEFAULT_PLAN", "STARTER"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Login: LoginConfig{
			MaxAttempts: getInt(v, "LOGIN_MAX_ATTEMPTS", 5),
			LockMinutes: getInt(v, "LOGIN_LOCK_MINUTES", 15),
		},
	}
}

// Validate rechaza configuraciones que no deben arrancar.
// En producción, un JWT_SECRET vacío o de ejemplo es fatal.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == placeholderSecret) {
		return ErrInsecureJWTSecret
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	if c.License.DefaultTermDays <= 0 || c.License.DefaultSeats <= 0 {
		return fmt.Errorf("config: LICENSE_DEFAULT_TERM_DAYS y LICENSE_DEFAULT_SEATS deben ser positivos")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v.GetString(key))) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
	DB        DBConfig
	Source    SourceConfig
	Firestore FirestoreConfig
	Gateway   GatewayConfig
	Cache     CacheConfig
	Analytics AnalyticsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
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

// JWTConfig validación de los tokens emitidos por el host (la app no los emite).
type JWTConfig struct {
	Secret string
	Issuer string
}

// Drivers de la fuente documental.
const (
	SourcePostgres  = "postgres"
	SourceFirestore = "firestore"
	SourceFile      = "file"
)

// SourceConfig selecciona el backend del Data Gateway.
type SourceConfig struct {
	Driver string // postgres | firestore | file
	File   string // ruta del snapshot JSON si Driver = file
}

// FirestoreConfig credenciales del proyecto Firestore.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // vacío = Application Default Credentials
}

// DBConfig configuración de PostgreSQL (tabla source_documents).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	MaxConns         int32         // DB_MAX_CONNS
	MinConns         int32         // DB_MIN_CONNS
	StatementTimeout time.Duration // DB_STATEMENT_TIMEOUT_MS; 0 = sin límite
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

// GatewayConfig reintentos del Data Gateway.
type GatewayConfig struct {
	Retries int
	Backoff time.Duration
}

// CacheConfig límites del Cache Manager.
type CacheConfig struct {
	MaxEntries      int
	Slack           int
	CleanupInterval time.Duration
}

// Calendarios hábiles soportados.
const (
	CalendarColombia    = "colombia"
	CalendarMondaySatur = "lunes-sabado"
)

// AnalyticsConfig parámetros de los motores analíticos.
type AnalyticsConfig struct {
	Timezone         string
	Calendar         string
	RFMTTL           time.Duration
	RiskTTL          time.Duration
	RiskPeriodDays   int
	RiskTopClients   int
	DefaultTopN      int
	ExpirationWindow int // días para vencimientos próximos
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, SOURCE_DRIVER, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "farma-analytics"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "farma-analytics"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "farma_analytics"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),

			MaxConns:         int32(getInt(v, "DB_MAX_CONNS", 8)),
			MinConns:         int32(getInt(v, "DB_MIN_CONNS", 1)),
			StatementTimeout: time.Duration(getInt(v, "DB_STATEMENT_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Source: SourceConfig{
			Driver: strings.ToLower(getString(v, "SOURCE_DRIVER", SourceFile)),
			File:   getString(v, "SOURCE_FILE", "./data/snapshot.json"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getString(v, "FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getString(v, "FIRESTORE_CREDENTIALS_FILE", ""),
		},
		Gateway: GatewayConfig{
			Retries: getInt(v, "GATEWAY_RETRIES", 3),
			Backoff: time.Duration(getInt(v, "GATEWAY_BACKOFF_MS", 1000)) * time.Millisecond,
		},
		Cache: CacheConfig{
			MaxEntries:      getInt(v, "CACHE_MAX_ENTRIES", 50),
			Slack:           getInt(v, "CACHE_SLACK", 5),
			CleanupInterval: time.Duration(getInt(v, "CACHE_CLEANUP_SECONDS", 300)) * time.Second,
		},
		Analytics: AnalyticsConfig{
			Timezone:         getString(v, "APP_TIMEZONE", "America/Bogota"),
			Calendar:         strings.ToLower(getString(v, "BUSINESS_CALENDAR", CalendarColombia)),
			RFMTTL:           time.Duration(getInt(v, "RFM_TTL_SECONDS", 300)) * time.Second,
			RiskTTL:          time.Duration(getInt(v, "RISK_TTL_SECONDS", 300)) * time.Second,
			RiskPeriodDays:   getInt(v, "RISK_PERIOD_DAYS", 90),
			RiskTopClients:   getInt(v, "RISK_TOP_CLIENTS", 3),
			DefaultTopN:      getInt(v, "DEFAULT_TOP_N", 10),
			ExpirationWindow: getInt(v, "EXPIRATION_WINDOW_DAYS", 7),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source.Driver {
	case SourcePostgres, SourceFile:
	case SourceFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID es obligatorio con SOURCE_DRIVER=firestore")
		}
	default:
		return fmt.Errorf("SOURCE_DRIVER inválido: %q", c.Source.Driver)
	}
	if c.Gateway.Retries < 1 {
		return fmt.Errorf("GATEWAY_RETRIES debe ser >= 1")
	}
	switch c.Analytics.Calendar {
	case CalendarColombia, CalendarMondaySatur:
	default:
		return fmt.Errorf("BUSINESS_CALENDAR inválido: %q", c.Analytics.Calendar)
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
			n, err := strconv.Atoi(v.GetString(key))
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

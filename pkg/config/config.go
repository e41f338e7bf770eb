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
	App     AppConfig
	HTTP    HTTPConfig
	JWT     JWTConfig
	Admin   AdminConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Billing BillingConfig
	Backup  BackupConfig
	S3      S3Config
	AI      AIConfig
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AdminConfig credenciales del operador único de la aplicación.
// Si PasswordHash está vacío se usa Password (se hashea con bcrypt al arrancar).
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// Drivers de almacenamiento clave-valor soportados.
const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// StorageConfig selecciona el backend clave-valor del DataManager.
type StorageConfig struct {
	Driver            string // badger, postgres, redis, memory
	Path              string // directorio de badger; vacío = en memoria
	Namespace         string // prefijo de todas las claves
	CompressThreshold int    // bytes a partir de los cuales se comprime el payload
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
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

// RedisConfig conexión a Redis cuando Storage.Driver = redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// BillingConfig reglas de facturación configurables.
type BillingConfig struct {
	AllowNegativeStock bool
}

// BackupConfig respaldo automático.
type BackupConfig struct {
	Enabled       bool
	Dir           string
	Interval      time.Duration // antigüedad máxima del último respaldo
	CheckInterval time.Duration // frecuencia de verificación del scheduler
	Retain        int           // respaldos a conservar
	Compress      bool
}

// S3Config destino S3 compatible para respaldos (vacío = directorio local).
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	Prefix       string
}

// Enabled indica si hay un bucket configurado.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// AIConfig proveedor LLM para sugerencia de códigos HSN.
type AIConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, STORAGE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "unifyx-bill-maker"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "unifyx-bill-maker"),
		},
		Admin: AdminConfig{
			Username:     getString(v, "ADMIN_USERNAME", "admin"),
			Password:     getString(v, "ADMIN_PASSWORD", ""),
			PasswordHash: getString(v, "ADMIN_PASSWORD_HASH", ""),
		},
		Storage: StorageConfig{
			Driver:            strings.ToLower(getString(v, "STORAGE_DRIVER", StorageBadger)),
			Path:              getString(v, "STORAGE_PATH", "./data/kv"),
			Namespace:         getString(v, "STORAGE_NAMESPACE", "unifyx:"),
			CompressThreshold: getInt(v, "COMPRESS_THRESHOLD", 50*1024),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "billmaker"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 4),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			Prefix:   getString(v, "REDIS_PREFIX", "billmaker:"),
		},
		Billing: BillingConfig{
			AllowNegativeStock: getBool(v, "ALLOW_NEGATIVE_STOCK", false),
		},
		Backup: BackupConfig{
			Enabled:       getBool(v, "BACKUP_ENABLED", true),
			Dir:           getString(v, "BACKUP_DIR", "./data/backups"),
			Interval:      getDuration(v, "BACKUP_INTERVAL", 24*time.Hour),
			CheckInterval: getDuration(v, "BACKUP_CHECK_INTERVAL", time.Hour),
			Retain:        getInt(v, "BACKUP_RETAIN", 7),
			Compress:      getBool(v, "BACKUP_COMPRESS", true),
		},
		S3: S3Config{
			Endpoint:     getString(v, "S3_ENDPOINT", ""),
			Region:       getString(v, "S3_REGION", "ap-south-1"),
			Bucket:       getString(v, "S3_BUCKET", ""),
			AccessKey:    getString(v, "S3_ACCESS_KEY", ""),
			SecretKey:    getString(v, "S3_SECRET_KEY", ""),
			UsePathStyle: getBool(v, "S3_USE_PATH_STYLE", true),
			Prefix:       getString(v, "S3_PREFIX", "backups/"),
		},
		AI: AIConfig{
			AnthropicAPIKey: getString(v, "AI_ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "AI_ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageBadger, StoragePostgres, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconocido: %s", c.Storage.Driver)
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}

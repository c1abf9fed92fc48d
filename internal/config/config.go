package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// FileServerConfig holds the primary self-hosted file server settings.
// APIToken and UploadPassword are alternative authentication methods; the
// token wins when both are set.
type FileServerConfig struct {
	BaseURL        string
	APIToken       string
	UploadPassword string
	FolderPrefix   string
	ProbeTimeout   time.Duration
	CallTimeout    time.Duration
}

// S3Config holds object storage settings for the S3-compatible fallback
// backend. Credentials resolve in priority order: static keys, a shared
// credentials file, then ambient IAM credentials.
type S3Config struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	CredentialsFile string
	Bucket          string
	FolderPrefix    string
	UseSSL          bool
}

// ShareConfig holds share-link settings.
type ShareConfig struct {
	FrontendURL string
	DefaultTTL  time.Duration
	AutoGenTTL  time.Duration
}

// UploadConfig holds document upload limits.
type UploadConfig struct {
	MaxFileSize       int64
	MaxDocsPerBooking int
}

// AuthConfig holds JWT verification settings.
type AuthConfig struct {
	JWTSecret string
}

// RedisConfig holds the optional token-blacklist cache settings.
// An empty Addr disables Redis; an in-process store is used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
// AppHost is a bare host or IP; leave it empty to listen on all interfaces.
type AppConfig struct {
	AppHost    string
	Port       string
	LogLevel   string
	Database   DatabaseConfig
	FileServer FileServerConfig
	S3         S3Config
	Share      ShareConfig
	Upload     UploadConfig
	Auth       AuthConfig
	Redis      RedisConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", ""),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		FileServer: FileServerConfig{
			BaseURL:        getEnv("FILESERVER_BASE_URL", "http://localhost:3923"),
			APIToken:       getEnv("FILESERVER_API_TOKEN", ""),
			UploadPassword: getEnv("FILESERVER_UPLOAD_PASSWORD", ""),
			FolderPrefix:   getEnv("FILESERVER_FOLDER_PREFIX", "bookings"),
			ProbeTimeout:   time.Duration(getEnvInt("FILESERVER_PROBE_TIMEOUT_SEC", 5)) * time.Second,
			CallTimeout:    time.Duration(getEnvInt("FILESERVER_CALL_TIMEOUT_SEC", 30)) * time.Second,
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKey:       getEnv("S3_ACCESS_KEY", ""),
			SecretKey:       getEnv("S3_SECRET_KEY", ""),
			CredentialsFile: getEnv("S3_CREDENTIALS_FILE", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			FolderPrefix:    getEnv("S3_FOLDER_PREFIX", "fileserver"),
			UseSSL:          getEnvBool("S3_USE_SSL", true),
		},
		Share: ShareConfig{
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
			DefaultTTL:  time.Duration(getEnvInt("SHARE_DEFAULT_TTL_SEC", 604800)) * time.Second,
			AutoGenTTL:  time.Duration(getEnvInt("SHARE_AUTOGEN_TTL_SEC", 604800)) * time.Second,
		},
		Upload: UploadConfig{
			MaxFileSize:       int64(getEnvInt("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)),
			MaxDocsPerBooking: getEnvInt("UPLOAD_MAX_DOCS_PER_BOOKING", 20),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

// ListenAddr builds the host:port address the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return c.AppHost + ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	SourceFile   = "file"
	SourceMinio  = "minio"
	SourceMySQL  = "mysql"
	SourceSQLite = "sqlite"
)

// Config stores the application configuration.
type Config struct {
	// Catalog
	CatalogSource string // file, minio, mysql or sqlite
	CatalogPath   string // local catalog file for the file source

	// Logging
	LogLevel      string
	LogConsole    string // stderr, stdout or none
	LogFormat     string // json or console
	LogFile       string // rotated JSON log file, empty disables it
	LogMaxSize    int    // megabytes
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// HTTP API
	HTTPAddr          string
	JWTSecret         string
	JWTTTL            time.Duration
	AdminUser         string
	AdminPasswordHash string // bcrypt hash, empty disables login
	ShutdownTimeout   time.Duration

	// MySQL
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// SQLite
	SQLitePath string

	// Redis配置
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string // 事件发布频道

	// MinIO配置
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioRegion    string
	MinioBucket    string
	MinioObject    string // catalog object key
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool accepts anything strconv.ParseBool does.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings such as "30s" or "24h".
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
// godotenv.Load() does not override variables that are already set.
func Load() *Config {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is like Load but reads the given env file, which must exist.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, err
	}
	return fromEnv(), nil
}

func fromEnv() *Config {
	return &Config{
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", SourceFile)),
		CatalogPath:   getEnv("CATALOG_PATH", "data/videos.txt"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogConsole:    getEnv("LOG_CONSOLE", "stderr"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),

		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            getEnvDuration("JWT_TTL", 24*time.Hour),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // no hardcoded default
		DBName:     getEnv("DB_NAME", "vidplayer"),

		SQLitePath: getEnv("SQLITE_PATH", "data/catalog.db"),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""), // 默认无密码
		RedisDB:       getEnvInt("REDIS_DB", 0),     // 默认使用0号数据库
		RedisChannel:  getEnv("REDIS_CHANNEL", "vidplayer:events"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioBucket:    getEnv("MINIO_BUCKET", "vidplayer"),
		MinioObject:    getEnv("MINIO_OBJECT", "catalog/videos.txt"),
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	JWT         JWTConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Redis       RedisConfig
	Seed        SeedConfig
	Log         LogConfig
	ServiceName string // Tên service hiển thị trong log (tối đa 20 ký tự)
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins string // Danh sách origin cho CORS, phân tách bởi dấu phẩy
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Reset    bool // RESET_DB=true: xóa toàn bộ bảng trước khi migrate
}

// DSN trả về chuỗi kết nối theo định dạng của gorm postgres driver
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" port=" + d.Port +
		" sslmode=" + d.SSLMode +
		" TimeZone=" + d.TimeZone
}

// URL trả về connection URL cho golang-migrate
func (d DatabaseConfig) URL() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// StorageConfig chọn backend lưu trữ
type StorageConfig struct {
	Driver string // memory | postgres
}

// RedisConfig cấu hình cache role. Addr rỗng = dùng cache trong process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SeedConfig cấu hình dữ liệu khởi tạo
type SeedConfig struct {
	Enabled                    bool
	Version                    int
	DefaultSchoolAdminPassword string
}

// LogConfig cấu hình logger
type LogConfig struct {
	Level    string // debug | info | warn | error
	Format   string // json | console
	FilePath string
	Backend  string // logrus (goerrorkit mặc định) | zap
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	jwtExpirationHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SECONDS", "10"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SECONDS", "10"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisTTL, _ := strconv.Atoi(getEnv("REDIS_TTL_SECONDS", "300"))
	seedVersion, _ := strconv.Atoi(getEnv("SEED_VERSION", "1"))

	serviceName := getEnv("SERVICE_NAME", "schoolkit")
	if len(serviceName) > 20 {
		serviceName = serviceName[:20]
	}

	return &Config{
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExpirationHours) * time.Hour,
			Issuer:     getEnv("JWT_ISSUER", "schoolkit"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			ReadTimeout:    time.Duration(readTimeout) * time.Second,
			WriteTimeout:   time.Duration(writeTimeout) * time.Second,
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "schoolkit"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Asia/Ho_Chi_Minh"),
			Reset:    getEnvBool("RESET_DB", false),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      time.Duration(redisTTL) * time.Second,
		},
		Seed: SeedConfig{
			Enabled:                    getEnvBool("SEED_ENABLED", true),
			Version:                    seedVersion,
			DefaultSchoolAdminPassword: getEnv("DEFAULT_SCHOOL_ADMIN_PASSWORD", "admin123"),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "json"),
			FilePath: getEnv("LOG_FILE", "logs/errors.log"),
			Backend:  strings.ToLower(getEnv("LOG_BACKEND", "logrus")),
		},
		ServiceName: serviceName,
	}
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// StoreMySQL persists accounts and products through GORM over MySQL.
	StoreMySQL = "mysql"
	// StoreMemory keeps everything in process memory; nothing survives a restart.
	StoreMemory = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	StoreDriver        string
	MySQLDSN           string
	ResetDB            bool
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	JWTSecret          string
	SwaggerHost        string
	LogLevel           string
	PhoneCountryPrefix string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		StoreDriver:        getEnv("STORE_DRIVER", StoreMySQL),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/kletos?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:            getEnvBool("RESET_DB", false),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PhoneCountryPrefix: getEnv("PHONE_COUNTRY_PREFIX", "+254"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// File: /config/config.go
package config

import (
	"os"
	"strconv"
)

// Storage backend names. The backend is an explicit configuration
// value rather than being inferred from credential presence.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

type Config struct {
	Port      string
	JWTSecret string

	// AdminPassword gates the moderation surface. A value starting
	// with $2 is treated as a bcrypt hash; anything else is compared
	// in constant time.
	AdminPassword string

	// Storage
	StorageBackend string
	DataDir        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// Optional shared rate-limit counter. Empty keeps the in-process
	// limiter, which only constrains a single instance.
	RedisAddr     string
	RedisPassword string

	// Email Configuration
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	FromEmail      string
	FromName       string
	ModeratorEmail string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendLocal),
		DataDir:        getEnv("DATA_DIR", "data"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "tabor-blooms"),
		MinioUseSSL:    useSSL,
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		// Email settings
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       smtpPort,
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		FromEmail:      getEnv("FROM_EMAIL", "noreply@taborblooms.org"),
		FromName:       getEnv("FROM_NAME", "Tabor Blooms"),
		ModeratorEmail: getEnv("MODERATOR_EMAIL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

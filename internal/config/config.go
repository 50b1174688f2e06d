package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBPath     string
	LogLevel   string
	LogFormat  string
	JWTSecret  string
	TokenTTL   time.Duration
	LoginLimit int
	Email      EmailConfig
	Backup     BackupConfig
}

type EmailConfig struct {
	PostmarkToken string
	FromEmail     string
	BaseURL       string
}

type BackupConfig struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Prefix     string
	Passphrase string
	Retain     int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("CHORECHART_PORT", "8080"),
		DBPath:     getEnv("CHORECHART_DB_PATH", "chorechart.db"),
		LogLevel:   getEnv("CHORECHART_LOG_LEVEL", "info"),
		LogFormat:  getEnv("CHORECHART_LOG_FORMAT", "text"),
		JWTSecret:  os.Getenv("CHORECHART_JWT_SECRET"),
		TokenTTL:   getDuration("CHORECHART_TOKEN_TTL", 7*24*time.Hour),
		LoginLimit: getInt("CHORECHART_LOGIN_LIMIT", 10),
		Email: EmailConfig{
			PostmarkToken: os.Getenv("CHORECHART_POSTMARK_TOKEN"),
			FromEmail:     os.Getenv("CHORECHART_FROM_EMAIL"),
			BaseURL:       os.Getenv("CHORECHART_BASE_URL"),
		},
		Backup: BackupConfig{
			Endpoint:   os.Getenv("CHORECHART_BACKUP_ENDPOINT"),
			Bucket:     os.Getenv("CHORECHART_BACKUP_BUCKET"),
			Region:     getEnv("CHORECHART_BACKUP_REGION", "us-east-1"),
			AccessKey:  os.Getenv("CHORECHART_BACKUP_ACCESS_KEY"),
			SecretKey:  os.Getenv("CHORECHART_BACKUP_SECRET_KEY"),
			Prefix:     getEnv("CHORECHART_BACKUP_PREFIX", "chorechart"),
			Passphrase: os.Getenv("CHORECHART_BACKUP_PASSPHRASE"),
			Retain:     getInt("CHORECHART_BACKUP_RETAIN", 14),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

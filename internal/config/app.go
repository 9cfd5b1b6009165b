package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageFile      = "file"
	StorageMongo     = "mongo"
	StorageFirestore = "firestore"
)

type AppConfig struct {
	AI             AIConfig
	Server         ServerConfig
	Storage        StorageConfig
	Auth           AuthConfig
	PracticeConfig string
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type StorageConfig struct {
	Driver                   string
	ResultsDir               string
	MongoURI                 string
	MongoDatabase            string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	Collection               string
}

// AuthConfig пустой JWTSecret означает, что личность берется из заголовков
type AuthConfig struct {
	JWTSecret string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		AI: LoadAIConfig(),
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins:     getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Storage: StorageConfig{
			Driver:                   getEnv("STORAGE_DRIVER", StorageFile),
			ResultsDir:               getEnv("RESULTS_DIR", "results"),
			MongoURI:                 getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:            getEnv("MONGO_DATABASE", "placement"),
			FirestoreProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			FirestoreCredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
			Collection:               getEnv("PRACTICE_COLLECTION", "practiceInterviews"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		PracticeConfig: getEnv("PRACTICE_CONFIG", "config/practice.yaml"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

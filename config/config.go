package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTKey    string
	SaltRound int

	AdminUsername     string
	AdminPasswordHash []byte

	EmailSender   string
	EmailPassword string // SMTP password
	NotifyEmail   string // back-office inbox for registration notifications

	PostcodeApiURL string
	PostcodeApiKey string
}

// Load initializes configuration from environment variables or defaults.
// The admin password is bcrypt-hashed here so the plaintext is not kept
// around after startup.
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port: getEnv("PORT", "3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "academy"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),

		EmailSender:   getEnv("EMAIL_SENDER", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
		NotifyEmail:   getEnv("NOTIFY_EMAIL", ""),

		PostcodeApiURL: getEnv("POSTCODE_API_URL", "https://api.postcodeapi.nu/v3/lookup"),
		PostcodeApiKey: getEnv("POSTCODE_API_KEY", ""),
	}

	adminPassword := getEnv("ADMIN_PASSWORD", "changeme")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	cfg.AdminPasswordHash = hash

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if adminPassword == "changeme" {
		log.Println("Warning: Using default ADMIN_PASSWORD. Update it in your environment.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

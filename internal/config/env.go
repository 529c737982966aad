package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads the .env file if present. Missing files are fine: production
// deployments set real environment variables instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}
}

// Getenv returns the value of key, or fallback if the key is unset or empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

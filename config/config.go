package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	MongoURI    string
	Database    string
	Collection  string
	Environment string
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database:    getEnv("DATABASE_NAME", "mybank"),
		Collection:  getEnv("COLLECTION_NAME", "accounts"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

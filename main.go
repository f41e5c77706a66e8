package main

import (
	"log"
	"net/http"

	"mybank-server/config"
	"mybank-server/database"
	"mybank-server/repository"
	"mybank-server/routes"
	"mybank-server/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to MongoDB
	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()

	// Initialize store and service
	accountRepo := repository.NewAccountRepository(mongoDB.GetCollection(cfg.Collection))
	accountService := services.NewAccountService(accountRepo)

	// Setup routes
	router := routes.SetupRoutes(accountService)

	// Start server
	log.Printf("Server starting on port :%s", cfg.Port)
	log.Printf("Database: MongoDB (%s/%s)", cfg.Database, cfg.Collection)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

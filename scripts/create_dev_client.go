package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-identity-provider/internal/database"
	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/franciscosanchezn/gin-identity-provider/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var defaultScopes = []models.Scope{
	{Code: "admin", Description: "Manage applications and scopes"},
	{Code: "account:read", Description: "Read account profile"},
	{Code: "account:write", Description: "Edit account profile"},
}

func main() {
	// Parse command line flags
	dbPath := flag.String("db", "identity.sqlite", "SQLite database path")
	name := flag.String("name", "Development Client", "Application name")
	redirectURI := flag.String("redirect-uri", "http://localhost:3000/callback", "Authorized redirect URI")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(database.Models...); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	// Seed the default scopes; existing codes are left untouched
	for _, scope := range defaultScopes {
		var existing models.Scope
		if err := db.Where("code = ?", scope.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&scope).Error; err != nil {
			log.Fatal("Failed to create scope:", err)
		}
		fmt.Printf("Created scope: %s\n", scope.Code)
	}

	applicationService := services.NewApplicationService(db)

	// Check if the application already exists
	var existing models.Application
	if err := db.Where("name = ?", *name).First(&existing).Error; err == nil {
		fmt.Printf("Development application already exists!\n")
		fmt.Printf("Client ID: %s\n", existing.ClientID)
		fmt.Println("The client secret was only printed at creation time.")
		return
	}

	application, credentials, err := applicationService.CreateApplication(*name, "Local development client", "")
	if err != nil {
		log.Fatal("Failed to create application:", err)
	}
	if _, err := applicationService.AddRedirectURI(application.UID, *redirectURI); err != nil {
		log.Fatal("Failed to register redirect URI:", err)
	}

	fmt.Printf("✓ Development application created!\n")
	fmt.Printf("Client ID: %s\n", credentials.ClientID)
	fmt.Printf("Client Secret: %s\n", credentials.ClientSecret)
	fmt.Printf("Redirect URI: %s\n", *redirectURI)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://localhost:8080/oauth/token \\\n")
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", credentials.ClientID)
	fmt.Printf("  -d 'client_secret=%s' \\\n", credentials.ClientSecret)
	fmt.Printf("  -d 'scope=account:read'\n")
}

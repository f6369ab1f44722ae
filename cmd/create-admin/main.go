package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"eventip/internal/config"
	"eventip/internal/database"
	"eventip/internal/models"
	"eventip/internal/repositories"
	"eventip/internal/utils"
)

func main() {
	var (
		email     = flag.String("email", "", "Admin email address (required)")
		password  = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password, defaults to $ADMIN_PASSWORD")
		firstName = flag.String("first-name", "Admin", "First name, used as the default news author")
		lastName  = flag.String("last-name", "", "Last name")
	)
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/create-admin -email admin@eventip.net -password <secret> [-first-name Grace -last-name Hopper]")
		os.Exit(1)
	}

	if err := utils.ValidatePassword(*password); err != nil {
		log.Fatal("Invalid password: ", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.FromAppConfig(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	passwordHash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.Admin{
		Email:        strings.TrimSpace(*email),
		FirstName:    strings.TrimSpace(*firstName),
		LastName:     strings.TrimSpace(*lastName),
		PasswordHash: passwordHash,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repositories.NewAdminRepository(db.DB).Upsert(ctx, admin); err != nil {
		log.Fatal("Failed to save admin:", err)
	}

	fmt.Printf("Admin saved successfully!\n")
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Printf("Admin ID: %s\n", admin.ID)
	fmt.Printf("Sign in with POST /admin/login\n")
}

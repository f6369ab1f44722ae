package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"eventip/internal/config"
	"eventip/internal/database"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show migration status")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
		timeout    = flag.Duration("timeout", 2*time.Minute, "Give up after this long")
	)
	flag.Parse()

	if !*statusFlag && !*upFlag {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show migration status")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.FromAppConfig(cfg.Database))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	migrator := database.NewMigrator(db.DB)

	if *upFlag {
		ran, err := migrator.Up(ctx)
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		if ran == 0 {
			fmt.Println("Schema is up to date")
		} else {
			fmt.Printf("Applied %d migration(s)\n", ran)
		}
	}

	if *statusFlag {
		states, err := migrator.Status(ctx)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}

		fmt.Println("Migration Status:")
		fmt.Println("================")
		for _, s := range states {
			status := "PENDING"
			if s.Applied() {
				status = "APPLIED " + humanize.Time(*s.AppliedAt)
			}
			fmt.Printf("%03d %-32s %s\n", s.Version, s.Name, status)
		}
	}
}

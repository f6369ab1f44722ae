package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventip/internal/config"
	"eventip/internal/database"
	"eventip/internal/handlers"
	"eventip/internal/middleware"
	"eventip/internal/repositories"
	"eventip/internal/server"
	"eventip/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.FromAppConfig(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		ran, err := db.Migrate(ctx)
		if err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Printf("Applied %d pending migration(s)", ran)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	adminRepo := repositories.NewAdminRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	newsRepo := repositories.NewNewsRepository(db.DB)
	contactRepo := repositories.NewContactRepository(db.DB)
	privateTicketRepo := repositories.NewPrivateTicketRepository(db.DB)

	// Optional catalog cache
	var catalogCache services.CatalogCache
	if cfg.Redis.Addr != "" {
		client, err := services.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Printf("Redis unavailable, catalog cache disabled: %v", err)
		} else {
			defer client.Close()
			catalogCache = services.NewRedisCatalogCache(client, cfg.Redis.TTL)
			log.Printf("Catalog cache enabled (%s, ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// Optional domain event publisher
	var publisher services.EventPublisher = services.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := services.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("RabbitMQ unavailable, domain events disabled: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
			log.Printf("Publishing domain events to exchange %s", cfg.RabbitMQ.Exchange)
		}
	}

	// Optional acknowledgement mail
	var mailer services.ContactMailer
	if cfg.Resend.APIKey != "" {
		mailer = services.NewResendEmailService(cfg.Resend)
	} else {
		log.Println("RESEND_API_KEY not set, contact acknowledgements disabled")
	}

	// Storage (R2 with local fallback)
	storageFactory := services.NewStorageFactory(cfg)
	imageService := storageFactory.CreateImageService(ctx)

	// Sessions
	sessionService := services.NewSessionService(services.NewCookieStore(cfg.Session), userRepo)

	// Services
	lookupService := services.NewTicketLookupService(ticketRepo, cfg.Lookup.SourceTimeout)
	catalogService := services.NewCatalogService(eventRepo, catalogCache)
	newsService := services.NewNewsService(newsRepo, imageService, publisher)
	privateTicketService := services.NewPrivateTicketService(privateTicketRepo)
	contactService := services.NewContactService(contactRepo, publisher, mailer)
	adminAuthService := services.NewAdminAuthService(adminRepo)

	loginLimiter := middleware.NewLoginRateLimiter(cfg.Session.LoginMaxAttempts, cfg.Session.LoginWindow)
	defer loginLimiter.Close()
	contactLimiter := middleware.NewLoginRateLimiter(cfg.Contact.MaxMessages, cfg.Contact.Window)
	defer contactLimiter.Close()

	router := server.NewRouter(server.Handlers{
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Tickets:        handlers.NewTicketsHandler(lookupService),
		News:           handlers.NewNewsHandler(newsService),
		AdminNews:      handlers.NewAdminNewsHandler(newsService),
		PrivateTickets: handlers.NewPrivateTicketHandler(privateTicketService),
		Contact:        handlers.NewContactHandler(contactService),
		Auth:           handlers.NewAuthHandler(sessionService, adminAuthService),
	}, server.Options{
		Identity:       sessionService,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadDir:      cfg.Server.UploadDir,
		Health:         db.PingContext,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (%s)", srv.Addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	contactService.Wait()

	log.Println("Server exited")
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"eventip/internal/config"
	"eventip/internal/database"
	"eventip/internal/models"
	"eventip/internal/repositories"
)

type seedTier struct {
	Name      string
	Price     float64
	Quantity  int
	PaidSold  int
	IsPremium bool
}

type seedEvent struct {
	Name        string
	Description string
	City        string
	State       string
	Address     string
	DaysAhead   int
	StartTime   string
	Image       string
	EarlyBird   float64
	Tiers       []seedTier
}

var sampleEvents = []seedEvent{
	{
		Name:        "Lagos Jazz Night",
		Description: "An evening of live jazz with the city's finest quartets.",
		City:        "Lagos",
		State:       "Lagos",
		Address:     "12 Admiralty Way, Lekki",
		DaysAhead:   14,
		StartTime:   "19:00",
		Image:       "https://images.eventip.net/seed/jazz.jpg",
		EarlyBird:   10,
		Tiers: []seedTier{
			{Name: "Free Entry", Price: 0, Quantity: 100},
			{Name: "Regular", Price: 1500, Quantity: 200, PaidSold: 40},
			{Name: "VIP", Price: 15000, Quantity: 20, PaidSold: 5, IsPremium: true},
		},
	},
	{
		Name:        "Abuja Tech Summit",
		Description: "Talks and workshops from builders across the continent.",
		City:        "Abuja",
		State:       "FCT",
		Address:     "Transcorp Hilton",
		DaysAhead:   30,
		StartTime:   "09:30",
		Image:       "https://images.eventip.net/seed/summit.jpg",
		Tiers: []seedTier{
			{Name: "Standard", Price: 25000, Quantity: 300, PaidSold: 120},
		},
	},
}

func main() {
	buyerEmail := flag.String("buyer", "buyer@example.com", "Email that receives the sample tickets")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.FromAppConfig(cfg.Database))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Fatal("Failed to start transaction:", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name)
		VALUES ($1, 'Sample', 'Buyer')
		ON CONFLICT (email) DO NOTHING`, *buyerEmail); err != nil {
		log.Fatal("Failed to seed buyer:", err)
	}

	for _, e := range sampleEvents {
		eventID, tierIDs, err := seedOneEvent(ctx, tx, e)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", e.Name, err)
		}

		if err := seedTickets(ctx, tx, eventID, tierIDs, e, *buyerEmail); err != nil {
			log.Fatalf("Failed to seed tickets for %q: %v", e.Name, err)
		}
		fmt.Printf("Seeded event %s (%s)\n", e.Name, eventID)
	}

	privateID, err := seedPrivateTicket(ctx, tx, *buyerEmail)
	if err != nil {
		log.Fatal("Failed to seed private ticket:", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatal("Failed to commit seed data:", err)
	}

	news := repositories.NewNewsRepository(db.DB)
	post := &models.NewsPost{
		ID:         uuid.New().String(),
		Title:      "Welcome to Eventip News",
		Slug:       models.Slugify("Welcome to Eventip News") + "-" + uuid.New().String()[:8],
		Excerpt:    "Product updates and tips for organizers.",
		Content:    "<p>We will post release notes and guides here.</p>",
		Category:   "company",
		Status:     models.NewsPublished,
		IsFeatured: true,
		Author:     "Eventip Team",
	}
	if err := news.Create(ctx, post); err != nil {
		log.Fatal("Failed to seed news post:", err)
	}

	fmt.Printf("Seeded news post %s\n", post.URL())
	fmt.Printf("Private ticket: /private-tickets/%s\n", privateID)
	fmt.Printf("Look up tickets with GET /my-tickets?email=%s\n", *buyerEmail)
}

func seedOneEvent(ctx context.Context, tx *sql.Tx, e seedEvent) (string, []string, error) {
	eventDate := time.Now().AddDate(0, 0, e.DaysAhead)

	var eventID string
	err := tx.QueryRowContext(ctx, `
		INSERT INTO events (name, description, event_date, start_time, city, state, address,
			has_early_bird, early_bird_discount, early_bird_start_date, early_bird_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		e.Name, e.Description, eventDate, e.StartTime, e.City, e.State, e.Address,
		e.EarlyBird > 0, e.EarlyBird, time.Now().AddDate(0, 0, -1), time.Now().AddDate(0, 0, 7),
	).Scan(&eventID)
	if err != nil {
		return "", nil, fmt.Errorf("insert event: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_images (event_id, image_url, is_cover) VALUES ($1, $2, TRUE)`,
		eventID, e.Image); err != nil {
		return "", nil, fmt.Errorf("insert image: %w", err)
	}

	tierIDs := make([]string, 0, len(e.Tiers))
	for _, t := range e.Tiers {
		var tierID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO ticket_tiers (event_id, name, price, quantity, quantity_sold, paid_quantity_sold, is_premium)
			VALUES ($1, $2, $3, $4, $5, $5, $6)
			RETURNING id`,
			eventID, t.Name, t.Price, t.Quantity, t.PaidSold, t.IsPremium,
		).Scan(&tierID)
		if err != nil {
			return "", nil, fmt.Errorf("insert tier %s: %w", t.Name, err)
		}
		tierIDs = append(tierIDs, tierID)
	}

	return eventID, tierIDs, nil
}

// seedTickets gives the buyer one ticket per tier: paid tiers go to tickets,
// free tiers to free_tickets
func seedTickets(ctx context.Context, tx *sql.Tx, eventID string, tierIDs []string, e seedEvent, email string) error {
	for i, t := range e.Tiers {
		code := fmt.Sprintf("TKT-%s", uuid.New().String()[:8])
		reference := fmt.Sprintf("REF-%d", time.Now().UnixNano())

		if t.Price > 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tickets (event_id, ticket_tier_id, customer_email, price_paid, ticket_code, ticket_type, reference, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')`,
				eventID, tierIDs[i], email, t.Price, code, t.Name, reference); err != nil {
				return err
			}
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO free_tickets (event_id, reference, customer_email, customer_name, event_title,
				event_date, event_time, event_location, ticket_type, status)
			VALUES ($1, $2, $3, 'Sample Buyer', $4, $5, $6, $7, $8, 'active')`,
			eventID, reference, email, e.Name, time.Now().AddDate(0, 0, e.DaysAhead),
			e.StartTime, e.City+", "+e.State, t.Name); err != nil {
			return err
		}
	}
	return nil
}

func seedPrivateTicket(ctx context.Context, tx *sql.Tx, email string) (string, error) {
	data, err := json.Marshal(models.PrivateEventData{
		EventName:      "Private Rooftop Dinner",
		Description:    "Invitation-only dinner for sponsors.",
		EventStartDate: time.Now().AddDate(0, 0, 21).Format("2006-01-02"),
		StartTime:      "18:30",
		EndTime:        "22:00",
		Address:        "5 Bourdillon Road",
		City:           "Ikoyi",
		State:          "Lagos",
		Country:        "Nigeria",
	})
	if err != nil {
		return "", err
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO private_event_tickets (ticket_code, reference, status, quantity, buyer_name, buyer_email, is_paid, event_data)
		VALUES ($1, $2, 'active', 2, 'Sample Buyer', $3, TRUE, $4)
		RETURNING id`,
		"PRV-"+uuid.New().String()[:6], fmt.Sprintf("PRV-REF-%d", time.Now().Unix()), email, data,
	).Scan(&id)
	return id, err
}

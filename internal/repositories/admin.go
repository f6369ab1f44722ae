package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventip/internal/models"
)

// AdminRepository handles admin account data operations
type AdminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, created_at
		FROM admins
		WHERE email = $1`

	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.FirstName,
		&admin.LastName,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}

// Upsert creates an admin or replaces the name and password of an existing one
func (r *AdminRepository) Upsert(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, first_name, last_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			password_hash = EXCLUDED.password_hash
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.Email,
		admin.FirstName,
		admin.LastName,
		admin.PasswordHash,
		time.Now(),
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save admin: %w", err)
	}

	return nil
}

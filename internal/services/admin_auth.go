package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"eventip/internal/models"
	"eventip/internal/utils"
)

// AdminAuthService verifies admin credentials
type AdminAuthService struct {
	admins AdminRepository
	verify func(password, encoded string) (bool, error)
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(admins AdminRepository) *AdminAuthService {
	return &AdminAuthService{admins: admins, verify: utils.VerifyPassword}
}

var (
	unknownAdminOnce sync.Once
	unknownAdminHash string
)

// unknownAdminPasswordHash is checked when no admin has the email, so unknown
// emails cost the same argon2 work as wrong passwords
func unknownAdminPasswordHash() string {
	unknownAdminOnce.Do(func() {
		hash, err := utils.HashPassword("unknown-admin-placeholder")
		if err != nil {
			log.Printf("Failed to prepare placeholder admin hash: %v", err)
			return
		}
		unknownAdminHash = hash
	})
	return unknownAdminHash
}

// Login checks an email and password against the stored argon2id hash. Unknown
// emails and wrong passwords yield the same error.
func (s *AdminAuthService) Login(ctx context.Context, req models.AdminLoginRequest) (*models.Admin, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrAdminNotFound) {
			s.verify(req.Password, unknownAdminPasswordHash())
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.verify(req.Password, admin.PasswordHash)
	if err != nil {
		log.Printf("Stored password hash for admin %s is unreadable: %v", admin.ID, err)
		return nil, models.ErrInvalidCredentials
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}

	if utils.NeedsRehash(admin.PasswordHash) {
		log.Printf("Admin %s has a password hash with outdated parameters; rerun create-admin to refresh it", admin.Email)
	}

	log.Printf("Admin %s signed in", admin.Email)
	return admin, nil
}

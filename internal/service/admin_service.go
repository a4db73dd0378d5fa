package service

import (
	"context"
	"fmt"

	"github.com/ironcrest/proctor-backend/internal/model"
	"github.com/ironcrest/proctor-backend/internal/repository"
)

// AdminService handles admin account lookups.
type AdminService struct {
	adminRepo *repository.AdminRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// GetByUsername retrieves an admin by username.
func (s *AdminService) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: admin", ErrNotFound)
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

// Create creates a new admin. PasswordHash must already be hashed.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin) error {
	return s.adminRepo.Create(ctx, admin)
}

// SetPassword replaces an existing admin's password hash.
func (s *AdminService) SetPassword(ctx context.Context, username, passwordHash string) error {
	if err := s.adminRepo.UpdatePassword(ctx, username, passwordHash); err != nil {
		if isNoRows(err) {
			return fmt.Errorf("%w: admin", ErrNotFound)
		}
		return fmt.Errorf("set admin password: %w", err)
	}
	return nil
}

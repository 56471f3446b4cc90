package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

// Service provides authorization functionality on top of the user store.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// IsAdmin reports whether the user holds the admin role.
func (s *Service) IsAdmin(userID uint64) (bool, error) {
	roleName, err := s.RoleName(userID)
	if err != nil {
		return false, err
	}

	return roleName == models.RoleAdmin, nil
}

// RoleName returns the name of the user's role.
func (s *Service) RoleName(userID uint64) (string, error) {
	var roleName string

	err := s.db.Table("users").
		Select("roles.name").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.id = ?", userID).
		Scan(&roleName).Error
	if err != nil {
		return "", fmt.Errorf("failed to look up user role: %w", err)
	}

	if roleName == "" {
		return "", ErrUserNotFound
	}

	return roleName, nil
}

// GetUser retrieves a user with their role preloaded.
func (s *Service) GetUser(userID uint64) (*models.User, error) {
	var user models.User

	err := s.db.Preload("Role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

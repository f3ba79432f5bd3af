package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

// AuthService implements the no-password login: users are found or created by
// email, and a bearer session token is issued for subsequent requests.
type AuthService struct {
	db         *gorm.DB
	sessionTTL time.Duration
}

func NewAuthService(db *gorm.DB, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		sessionTTL: sessionTTL,
	}
}

// Login finds or creates the user for the given email and issues a session.
// Logging in twice with the same email is idempotent on the user record.
func (s *AuthService) Login(ctx context.Context, email, name string) (*models.User, *models.Session, error) {
	user, err := s.findOrCreateUser(ctx, email, name)
	if err != nil {
		return nil, nil, err
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return user, &session, nil
}

// Logout invalidates a session token. An unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AuthService) findOrCreateUser(ctx context.Context, email, name string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		UserID:  uuid.NewString(),
		Name:    name,
		Email:   email,
		Role:    models.RoleCustomer,
		Joined:  time.Now().Format("Jan 2006"),
		Phone:   "+91 98765 43210",
		Address: "123 Health Dr, Wellness City, India",
	}
	if createErr := s.db.WithContext(ctx).Create(&user).Error; createErr != nil {
		// A concurrent login may have created the user first; the unique
		// email index makes the loser of that race land here.
		if lookupErr := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; lookupErr == nil {
			return &user, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", createErr)
	}

	return &user, nil
}

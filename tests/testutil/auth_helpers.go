package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

// CreateUserWithSession creates a user with the given role and an active
// session, returning the user and the bearer token to authenticate with.
func CreateUserWithSession(t *testing.T, db *gorm.DB, name, email, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		UserID: uuid.NewString(),
		Name:   name,
		Email:  email,
		Role:   role,
		Joined: time.Now().Format("Jan 2006"),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return user, session.Token
}

// CreateExpiredSession issues a session token that is already past its
// expiry, for exercising the session-expiry path.
func CreateExpiredSession(t *testing.T, db *gorm.DB, user models.User) string {
	t.Helper()

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create expired session: %v", err)
	}
	return session.Token
}

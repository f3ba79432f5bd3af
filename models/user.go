package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer or back-office admin. Users are
// created idempotently at login (find-or-create by email).
type User struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UserID    string         `gorm:"uniqueIndex;not null" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'customer'" json:"role"` // "customer" or "admin"
	Orders    int            `gorm:"not null;default:0" json:"orders"`        // denormalized display counter, not reconciled with the orders table
	Joined    string         `gorm:"not null" json:"joined"`                  // "Jan 2006" formatted month of signup
	Phone     string         `gorm:"default:'+91 98765 43210'" json:"phone,omitempty"`
	Address   string         `gorm:"default:'123 Health Dr, Wellness City, India'" json:"address,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Prescription statuses. Uploads start Pending; admins may set any of the
// three labels (transitions are not restricted to one-way).
const (
	PrescriptionStatusPending  = "Pending"
	PrescriptionStatusApproved = "Approved"
	PrescriptionStatusRejected = "Rejected"
)

// ValidPrescriptionStatus reports whether s is a recognized prescription status.
func ValidPrescriptionStatus(s string) bool {
	switch s {
	case PrescriptionStatusPending, PrescriptionStatusApproved, PrescriptionStatusRejected:
		return true
	}
	return false
}

// Prescription represents an uploaded prescription awaiting pharmacist review
type Prescription struct {
	ID             uint           `gorm:"primaryKey" json:"-"`
	PrescriptionID string         `gorm:"uniqueIndex;not null" json:"id"` // public "RX-NNN" token
	Patient        string         `gorm:"not null" json:"patient"`
	UploadedBy     string         `gorm:"not null;index" json:"uploadedBy"` // customer email
	Time           time.Time      `gorm:"not null" json:"time"`
	Status         string         `gorm:"not null;default:'Pending'" json:"status"`
	ImageKey       *string        `json:"-"`                             // storage key for the uploaded image
	ImageURL       *string        `gorm:"-" json:"image,omitempty"`      // computed, presigned URL
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Prescription model
func (Prescription) TableName() string {
	return "prescriptions"
}

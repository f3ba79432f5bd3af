package models

import (
	"time"

	"gorm.io/gorm"
)

// Inquiry statuses, advanced manually by admin action.
const (
	InquiryStatusNew     = "New"
	InquiryStatusRead    = "Read"
	InquiryStatusReplied = "Replied"
)

// ValidInquiryStatus reports whether s is a recognized inquiry status.
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusReplied:
		return true
	}
	return false
}

// Inquiry represents a contact-form message from a visitor
type Inquiry struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	InquiryID string         `gorm:"uniqueIndex;not null" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"not null" json:"email"`
	Subject   string         `gorm:"not null" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Date      time.Time      `gorm:"not null" json:"date"`
	Status    string         `gorm:"not null;default:'New'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}

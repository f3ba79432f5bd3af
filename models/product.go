package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product (medicine, device, supplement)
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	ProductID     string         `gorm:"uniqueIndex;not null" json:"id"` // public id, timestamp-derived at creation
	Name          string         `gorm:"not null" json:"name"`
	Category      string         `gorm:"not null" json:"category"`
	Price         float64        `gorm:"not null" json:"price"`
	Image         string         `json:"image,omitempty"`
	Rating        float64        `gorm:"default:4.5" json:"rating,omitempty"`
	Slug          string         `gorm:"index" json:"slug,omitempty"` // derived from name, not unique
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	Dosage        string         `gorm:"type:text" json:"dosage,omitempty"`
	SafetyWarning string         `gorm:"type:text" json:"safetyWarning,omitempty"`
	StockStatus   string         `gorm:"not null;default:'In Stock'" json:"stockStatus"` // free-form label, not derived from sales
	SKU           string         `json:"sku,omitempty"`
	Manufacturer  string         `json:"manufacturer,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

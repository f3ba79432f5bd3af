package models

import "time"

// CartItem is a single line in a customer's cart. At most one entry per
// product id exists in a cart; quantity is always positive.
type CartItem struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gte=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Image    string  `json:"image,omitempty"`
}

// Cart is the persisted per-customer cart. Items are stored as a single JSON
// snapshot that is rewritten in full on every mutation; Items and Total are
// computed from the snapshot on read and never stored independently.
type Cart struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	CustomerEmail string     `gorm:"uniqueIndex;not null" json:"customerEmail"`
	Snapshot      string     `gorm:"type:text;not null;default:'[]'" json:"-"`
	Items         []CartItem `gorm:"-" json:"items"`
	Total         float64    `gorm:"-" json:"total"` // Σ price*quantity, derived
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

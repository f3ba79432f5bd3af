package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Orders are created as Processing and only ever change via
// explicit status-transition calls; they are never deleted.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the recognized order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a closed line-item type captured at checkout time. Price and
// name are recorded as they were in the cart, so later catalog edits do not
// rewrite history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderRef  uint    `gorm:"not null;index" json:"-"` // foreign key to orders table
	ProductID string  `gorm:"not null" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Order represents a placed order in the system
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"-"`
	OrderID         string         `gorm:"uniqueIndex;not null" json:"id"` // public "ORD-NNNN" token
	Customer        string         `gorm:"not null" json:"customer"`
	CustomerEmail   string         `gorm:"not null;index" json:"customerEmail"`
	Items           []OrderItem    `gorm:"foreignKey:OrderRef" json:"items"`
	Total           float64        `gorm:"not null" json:"total"` // cart subtotal at checkout time
	Status          string         `gorm:"not null;default:'Processing'" json:"status"`
	Date            time.Time      `gorm:"not null" json:"date"`
	PaymentMethod   string         `gorm:"not null" json:"paymentMethod"` // COD, UPI, UPI QR, Card, Net Banking
	ShippingAddress string         `gorm:"not null" json:"shippingAddress"`
	IdempotencyKey  string         `gorm:"uniqueIndex;not null" json:"-"` // duplicate-submission guard
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

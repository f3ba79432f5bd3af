package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Prescription{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, key string, total float64, createdAt time.Time) {
	order := models.Order{
		OrderID:         "ORD-" + key,
		Customer:        "Test Customer",
		CustomerEmail:   "customer@example.com",
		Total:           total,
		Status:          models.OrderStatusProcessing,
		Date:            createdAt,
		PaymentMethod:   "COD",
		ShippingAddress: "123 Health Dr, Wellness City",
		IdempotencyKey:  "key-" + key,
		CreatedAt:       createdAt,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
}

func seedPrescription(t *testing.T, db *gorm.DB, id, status string, createdAt time.Time) {
	rx := models.Prescription{
		PrescriptionID: id,
		Patient:        "Test Customer",
		UploadedBy:     "customer@example.com",
		Status:         status,
		Time:           createdAt,
		CreatedAt:      createdAt,
	}
	if err := db.Create(&rx).Error; err != nil {
		t.Fatalf("Failed to seed prescription: %v", err)
	}
}

func TestDashboardStats_EmptyDatabase(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := NewDashboardService(db)

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, int64(0), stats.ActiveUsers)
	assert.Equal(t, int64(0), stats.PendingPrescriptions)
	assert.Equal(t, 0.0, stats.OrdersTrend)
	assert.Equal(t, 0.0, stats.RevenueTrend)
}

func TestDashboardStats_Rollups(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := NewDashboardService(db)
	now := time.Now()

	// Two orders in the current window, one in the previous
	seedOrder(t, db, "1001", 500, now.Add(-24*time.Hour))
	seedOrder(t, db, "1002", 300, now.Add(-48*time.Hour))
	seedOrder(t, db, "1003", 400, now.Add(-40*24*time.Hour))

	db.Create(&models.User{UserID: "u1", Name: "A", Email: "a@example.com", Role: models.RoleCustomer, Joined: "Jan 2026"})
	db.Create(&models.User{UserID: "u2", Name: "B", Email: "b@example.com", Role: models.RoleCustomer, Joined: "Jan 2026"})

	seedPrescription(t, db, "RX-101", models.PrescriptionStatusPending, now.Add(-time.Hour))
	seedPrescription(t, db, "RX-102", models.PrescriptionStatusApproved, now.Add(-time.Hour))

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, 1200.0, stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	// Only Pending prescriptions count toward the rollup
	assert.Equal(t, int64(1), stats.PendingPrescriptions)

	// 2 orders now vs 1 before: +100%
	assert.Equal(t, 100.0, stats.OrdersTrend)
	// 800 revenue now vs 400 before: +100%
	assert.Equal(t, 100.0, stats.RevenueTrend)
	// Users all created in the current window with no prior activity
	assert.Equal(t, 100.0, stats.UsersTrend)
}

func TestDashboardStats_DecliningTrend(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := NewDashboardService(db)
	now := time.Now()

	// One order now vs two before: -50%
	seedOrder(t, db, "2001", 100, now.Add(-24*time.Hour))
	seedOrder(t, db, "2002", 100, now.Add(-35*24*time.Hour))
	seedOrder(t, db, "2003", 300, now.Add(-36*24*time.Hour))

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, -50.0, stats.OrdersTrend)
	// 100 revenue now vs 400 before: -75%
	assert.Equal(t, -75.0, stats.RevenueTrend)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		expected float64
	}{
		{"no activity either window", 0, 0, 0},
		{"activity only in current window", 0, 5, 100},
		{"doubled", 2, 4, 100},
		{"halved", 4, 2, -50},
		{"rounded to one decimal", 3, 4, 33.3},
		{"dropped to zero", 5, 0, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentChange(tt.previous, tt.current))
		})
	}
}

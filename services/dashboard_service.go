package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

// trendWindow is the rolling window used when computing trend percentages:
// the most recent window is compared against the one before it.
const trendWindow = 30 * 24 * time.Hour

// DashboardStats is the admin dashboard rollup. Counts and sums are computed
// from the live collections; trends compare the last 30 days against the 30
// days before that.
type DashboardStats struct {
	TotalOrders          int64   `json:"totalOrders"`
	OrdersTrend          float64 `json:"ordersTrend"`
	TotalRevenue         float64 `json:"totalRevenue"`
	RevenueTrend         float64 `json:"revenueTrend"`
	ActiveUsers          int64   `json:"activeUsers"`
	UsersTrend           float64 `json:"usersTrend"`
	PendingPrescriptions int64   `json:"pendingPrescriptions"`
	PrescriptionsTrend   float64 `json:"prescriptionsTrend"`
}

// DashboardService computes read-only rollups over the record collections.
// It holds no state of its own; callers re-fetch after any status transition.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats computes the dashboard rollup.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	now := time.Now()
	currentStart := now.Add(-trendWindow)
	previousStart := now.Add(-2 * trendWindow)

	stats := &DashboardStats{}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Prescription{}).
		Where("status = ?", models.PrescriptionStatusPending).
		Count(&stats.PendingPrescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending prescriptions: %w", err)
	}

	var err error
	if stats.OrdersTrend, err = s.countTrend(ctx, &models.Order{}, "", currentStart, previousStart, now); err != nil {
		return nil, err
	}
	if stats.RevenueTrend, err = s.revenueTrend(ctx, currentStart, previousStart, now); err != nil {
		return nil, err
	}
	if stats.UsersTrend, err = s.countTrend(ctx, &models.User{}, "", currentStart, previousStart, now); err != nil {
		return nil, err
	}
	if stats.PrescriptionsTrend, err = s.countTrend(ctx, &models.Prescription{}, models.PrescriptionStatusPending, currentStart, previousStart, now); err != nil {
		return nil, err
	}

	return stats, nil
}

// countTrend compares record counts in the current and previous windows.
// status narrows the count to rows with that status when non-empty.
func (s *DashboardService) countTrend(ctx context.Context, model interface{}, status string, currentStart, previousStart, now time.Time) (float64, error) {
	window := func(from, to time.Time) (int64, error) {
		query := s.db.WithContext(ctx).Model(model).Where("created_at >= ? AND created_at < ?", from, to)
		if status != "" {
			query = query.Where("status = ?", status)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to count trend window: %w", err)
		}
		return count, nil
	}

	current, err := window(currentStart, now)
	if err != nil {
		return 0, err
	}
	previous, err := window(previousStart, currentStart)
	if err != nil {
		return 0, err
	}
	return percentChange(float64(previous), float64(current)), nil
}

// revenueTrend compares summed order totals in the current and previous windows.
func (s *DashboardService) revenueTrend(ctx context.Context, currentStart, previousStart, now time.Time) (float64, error) {
	window := func(from, to time.Time) (float64, error) {
		var sum float64
		err := s.db.WithContext(ctx).Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0)").
			Where("created_at >= ? AND created_at < ?", from, to).
			Scan(&sum).Error
		if err != nil {
			return 0, fmt.Errorf("failed to sum trend window: %w", err)
		}
		return sum, nil
	}

	current, err := window(currentStart, now)
	if err != nil {
		return 0, err
	}
	previous, err := window(previousStart, currentStart)
	if err != nil {
		return 0, err
	}
	return percentChange(previous, current), nil
}

// percentChange computes the percentage change from previous to current,
// rounded to one decimal place. An empty previous window with activity in the
// current one reads as +100%.
func percentChange(previous, current float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := (current - previous) / previous * 100
	return math.Round(change*10) / 10
}

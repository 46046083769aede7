package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foodorder/apiserver/types"
)

const (
	DefaultRecentOrders = 10
	DefaultTopSellers   = 5
)

// ReportRepository defines the platform-wide aggregate queries.
type ReportRepository interface {
	Totals(ctx context.Context) (types.Totals, error)
	RecentOrders(ctx context.Context, limit int) ([]types.OrderDetail, error)
	TopSellers(ctx context.Context, limit int) ([]types.SellerRanking, error)
}

// ReportSink stores an encoded report.
type ReportSink interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) error
}

// ReportService builds the operator dashboard.
type ReportService struct {
	repo ReportRepository
	now  func() time.Time
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// Dashboard collects totals, the latest orders and the best sellers.
// Non-positive limits fall back to the defaults.
func (s *ReportService) Dashboard(ctx context.Context, recentLimit, topLimit int) (types.Dashboard, error) {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentOrders
	}
	if topLimit <= 0 {
		topLimit = DefaultTopSellers
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("totals: %w", err)
	}
	recent, err := s.repo.RecentOrders(ctx, recentLimit)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("recent orders: %w", err)
	}
	top, err := s.repo.TopSellers(ctx, topLimit)
	if err != nil {
		return types.Dashboard{}, fmt.Errorf("top sellers: %w", err)
	}

	return types.Dashboard{
		GeneratedAt:  s.now().UTC().Format(time.RFC3339),
		Totals:       totals,
		RecentOrders: recent,
		TopSellers:   top,
	}, nil
}

// Upload writes the dashboard as JSON and returns the object key.
func (s *ReportService) Upload(ctx context.Context, sink ReportSink, dashboard types.Dashboard) (string, error) {
	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode dashboard: %w", err)
	}
	key := fmt.Sprintf("reports/dashboard-%d.json", s.now().Unix())
	if err := sink.PutBytes(ctx, key, data, "application/json"); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

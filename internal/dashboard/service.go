package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"salesdesk-be/internal/cache"
	"salesdesk-be/internal/lead"
	"salesdesk-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	topProductsLimit  = 5
	lowStockThreshold = 5
	lowStockLimit     = 5
	recentOrdersLimit = 5

	statsCacheKey = "dashboard:stats"
)

var hundred = decimal.NewFromInt(100)

// Cache holds the serialized snapshot between requests. Get must return
// cache.ErrCacheMiss when nothing is stored.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewService builds the aggregator. A nil cache or non-positive ttl
// disables caching.
func NewService(repo Repository, c Cache, ttl time.Duration) Service {
	if ttl <= 0 {
		c = nil
	}
	return &service{repo: repo, cache: c, ttl: ttl, now: time.Now}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DashboardStats"),
	)

	if cached, ok := s.fromCache(ctx, log); ok {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		log.Error("failed to compute dashboard stats", zap.Error(err))
		return nil, err
	}

	s.store(ctx, log, stats)
	return stats, nil
}

func (s *service) compute(ctx context.Context) (*Stats, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	active := make([]string, 0, len(lead.ActiveStatuses))
	for _, st := range lead.ActiveStatuses {
		active = append(active, string(st))
	}

	var (
		leads     LeadCounts
		platforms []PlatformCount
		byStatus  []StatusCount
		products  int
		revenue   Revenue
		top       []TopProduct
		lowStock  []LowStockProduct
		recent    []RecentOrder
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { leads, err = s.repo.LeadCounts(gctx, active); return })
	g.Go(func() (err error) { platforms, err = s.repo.LeadsByPlatform(gctx); return })
	g.Go(func() (err error) { byStatus, err = s.repo.OrdersByStatus(gctx); return })
	g.Go(func() (err error) { products, err = s.repo.ActiveProducts(gctx); return })
	g.Go(func() (err error) { revenue, err = s.repo.Revenue(gctx, monthStart, lastMonthStart); return })
	g.Go(func() (err error) { top, err = s.repo.TopProducts(gctx, topProductsLimit); return })
	g.Go(func() (err error) { lowStock, err = s.repo.LowStock(gctx, lowStockThreshold, lowStockLimit); return })
	g.Go(func() (err error) { recent, err = s.repo.RecentOrders(gctx, recentOrdersLimit); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalOrders := 0
	for _, sc := range byStatus {
		totalOrders += sc.Count
	}

	return &Stats{
		TotalLeads:     leads.Total,
		ActiveLeads:    leads.Active,
		ConvertedLeads: leads.Converted,
		LostLeads:      leads.Lost,
		TotalOrders:    totalOrders,
		ActiveProducts: products,

		TotalRevenue:         revenue.Total,
		ThisMonthRevenue:     revenue.ThisMonth,
		LastMonthRevenue:     revenue.LastMonth,
		RevenueChangePercent: RevenueChange(revenue.ThisMonth, revenue.LastMonth),
		DeliveredOrders:      revenue.DeliveredCount,
		AverageOrderValue:    AverageOrderValue(revenue.Total, revenue.DeliveredCount),
		ConversionRate:       ConversionRate(leads.Converted, leads.Total),

		OrdersByStatus:  byStatus,
		TopProducts:     top,
		LeadsByPlatform: platforms,
		LowStock:        lowStock,
		RecentOrders:    recent,

		GeneratedAt: now.UTC(),
	}, nil
}

// RevenueChange is the month over month change in percent. Growth from
// nothing counts as 100.
func RevenueChange(thisMonth, lastMonth decimal.Decimal) decimal.Decimal {
	if lastMonth.IsPositive() {
		return thisMonth.Sub(lastMonth).Div(lastMonth).Mul(hundred).Round(2)
	}
	if thisMonth.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

func AverageOrderValue(total decimal.Decimal, delivered int) decimal.Decimal {
	if delivered == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(delivered))).Round(2)
}

func ConversionRate(converted, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(converted)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(2)
}

func (s *service) fromCache(ctx context.Context, log *zap.Logger) (*Stats, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, statsCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		log.Warn("dashboard cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

func (s *service) store(ctx context.Context, log *zap.Logger, stats *Stats) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		log.Warn("failed to encode dashboard stats", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl); err != nil {
		log.Warn("dashboard cache write failed", zap.Error(err))
	}
}

package dataprocessing

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"salesdash/pkg/contracts/domain"
)

// Summarize totals revenue and quantity and counts distinct products.
// An empty dataset yields the zero summary. TotalQuantity saturates at math.MaxInt64.
func Summarize(d domain.Dataset) domain.SummaryMetrics {
	total := decimal.Zero
	var qty int64
	products := make(map[string]struct{})

	for _, r := range d {
		total = total.Add(r.Revenue)
		qty = addQuantity(qty, r.Quantity)
		products[r.Product] = struct{}{}
	}

	return domain.SummaryMetrics{
		TotalRevenue:   total,
		TotalQuantity:  qty,
		UniqueProducts: len(products),
	}
}

// addQuantity adds two non-negative quantities without wrapping.
func addQuantity(a, b int64) int64 {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// RevenueTrend sums revenue per calendar day, oldest first.
// Days without records are left out.
func RevenueTrend(d domain.Dataset) []domain.TrendPoint {
	byDay := make(map[time.Time]decimal.Decimal)
	for _, r := range d {
		day := truncateToDay(r.OrderDate)
		byDay[day] = byDay[day].Add(r.Revenue)
	}

	points := make([]domain.TrendPoint, 0, len(byDay))
	for day, rev := range byDay {
		points = append(points, domain.TrendPoint{Period: day, Revenue: rev})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})
	return points
}

// TopProducts ranks products by revenue and keeps the first limit entries.
// A non-positive limit returns no rows.
func TopProducts(d domain.Dataset, limit int) []domain.ProductRevenue {
	if limit <= 0 {
		return []domain.ProductRevenue{}
	}

	totals := rollup(d, func(r domain.SalesRecord) string { return r.Product })
	out := make([]domain.ProductRevenue, 0, len(totals))
	for _, t := range totals {
		out = append(out, domain.ProductRevenue{Product: t.key, Revenue: t.revenue})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RegionSales ranks every region by revenue.
func RegionSales(d domain.Dataset) []domain.RegionRevenue {
	totals := rollup(d, func(r domain.SalesRecord) string { return r.Region })
	out := make([]domain.RegionRevenue, 0, len(totals))
	for _, t := range totals {
		out = append(out, domain.RegionRevenue{Region: t.key, Revenue: t.revenue})
	}
	return out
}

// BuildDashboard computes all four views concurrently. The result matches calling
// each function in turn.
func BuildDashboard(ctx context.Context, d domain.Dataset, limit int) (domain.Dashboard, error) {
	dash := domain.Dashboard{TopLimit: limit}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dash.Summary = Summarize(d)
		return ctx.Err()
	})
	g.Go(func() error {
		dash.Trend = RevenueTrend(d)
		return ctx.Err()
	})
	g.Go(func() error {
		dash.TopProducts = TopProducts(d, limit)
		return ctx.Err()
	})
	g.Go(func() error {
		dash.Regions = RegionSales(d)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, err
	}

	dash.Status = domain.StatusReady
	if len(d) == 0 {
		dash.Status = domain.StatusNoValidRows
	}
	return dash, nil
}

type keyRevenue struct {
	key     string
	revenue decimal.Decimal
}

// rollup sums revenue by key, sorted by revenue descending then key ascending.
func rollup(d domain.Dataset, keyOf func(domain.SalesRecord) string) []keyRevenue {
	sums := make(map[string]decimal.Decimal)
	for _, r := range d {
		k := keyOf(r)
		sums[k] = sums[k].Add(r.Revenue)
	}

	out := make([]keyRevenue, 0, len(sums))
	for k, v := range sums {
		out = append(out, keyRevenue{key: k, revenue: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].revenue.Cmp(out[j].revenue); c != 0 {
			return c > 0
		}
		return out[i].key < out[j].key
	})
	return out
}

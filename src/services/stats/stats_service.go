package stats

import (
	"context"
	"time"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/order/domain/persistence"
)

const chartDays = 7

// DeliveredOrders is the order query the dashboard needs.
// *persistence.OrderRepository satisfies it.
type DeliveredOrders interface {
	ListDeliveredOrders(ctx context.Context, since time.Time) ([]persistence.OrderDocument, error)
}

type DayRevenue struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

type Dashboard struct {
	TotalRevenue      float64      `json:"totalRevenue"`
	TotalProductsSold int          `json:"totalProductsSold"`
	WeeklyRevenue     float64      `json:"weeklyRevenue"`
	ChartData         []DayRevenue `json:"chartData"`
}

type StatsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type statsService struct {
	logger   log.Logger
	orders   DeliveredOrders
	now      func() time.Time
	location *time.Location
}

func NewStatsService(logger log.Logger, orders DeliveredOrders) StatsService {
	return &statsService{
		logger:   logger,
		orders:   orders,
		now:      time.Now,
		location: time.Local,
	}
}

// Dashboard aggregates delivered orders: all-time revenue and units, the
// revenue of the last seven days, and one chart bucket per calendar day
// ending today.
func (s *statsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	delivered, err := s.orders.ListDeliveredOrders(ctx, time.Time{})
	if err != nil {
		s.logger.Exception(ctx, "Failed to load delivered orders for stats", err)
		return nil, apperrors.Unavailable("load stats", err)
	}

	now := s.now().In(s.location)
	weekStart := now.AddDate(0, 0, -chartDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	firstDay := today.AddDate(0, 0, -(chartDays - 1))

	dash := &Dashboard{ChartData: make([]DayRevenue, chartDays)}
	for i := range dash.ChartData {
		dash.ChartData[i].Day = firstDay.AddDate(0, 0, i).Format("Mon")
	}

	for _, order := range delivered {
		dash.TotalRevenue += order.Total
		for _, item := range order.Items {
			dash.TotalProductsSold += item.Quantity
		}

		created := order.CreatedAt.In(s.location)
		if !created.Before(weekStart) {
			dash.WeeklyRevenue += order.Total
		}

		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, s.location)
		if day.Before(firstDay) || day.After(today) {
			continue
		}
		idx := dayIndex(firstDay, day)
		if idx >= 0 && idx < chartDays {
			dash.ChartData[idx].Amount += order.Total
		}
	}

	return dash, nil
}

// dayIndex counts calendar days between two local midnights, tolerating
// DST shifts.
func dayIndex(from, to time.Time) int {
	idx := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		idx++
	}
	return idx
}

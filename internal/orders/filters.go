package orders

import (
	"time"

	"github.com/isdl/storefront-gateway/internal/upstream"
	"github.com/isdl/storefront-gateway/pkg/enums"
)

const day = 24 * time.Hour

func matchesStatus(order upstream.Order, filter enums.StatusFilter) bool {
	switch filter {
	case enums.StatusFilterCompleted:
		return order.Verified
	case enums.StatusFilterTransit:
		return !order.Verified && order.Status != enums.OrderStatusCancelled.String()
	case enums.StatusFilterCancelled:
		return order.Status == enums.OrderStatusCancelled.String()
	default:
		return true
	}
}

// matchesWindow applies the age-based filters. The month buckets use a flat
// 30-day month, matching the historical behavior rather than the calendar.
func matchesWindow(order upstream.Order, filter enums.TimeFilter, now time.Time) bool {
	if filter == "" || filter == enums.TimeFilterAll {
		return true
	}

	placed, err := time.Parse(time.RFC3339, order.OrderDate)
	if err != nil {
		return false
	}

	switch filter {
	case enums.TimeFilterThisWeek:
		return now.Sub(placed) < 7*day
	case enums.TimeFilterThisMonth:
		return placed.Month() == now.Month() && placed.Year() == now.Year()
	case enums.TimeFilterLast3Month:
		return now.Sub(placed) < 3*30*day
	case enums.TimeFilterLast6Month:
		return now.Sub(placed) < 6*30*day
	default:
		return true
	}
}

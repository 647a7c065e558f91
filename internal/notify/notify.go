// Package notify derives the retailer notification feed from detector output
// and supply-order status changes.
package notify

import (
	"fmt"
	"strings"

	"github.com/ksr-21/smartstock/internal/domain"
)

// DefaultFeedLimit caps the notification drawer.
const DefaultFeedLimit = 10

// OrderAnomalies turns shipped and cancelled orders into STATUS_CHANGE
// entries, preserving order sequence. Other statuses are not reported.
func OrderAnomalies(orders []domain.SupplyOrder) []domain.Anomaly {
	out := make([]domain.Anomaly, 0)
	for _, o := range orders {
		severity, ok := statusSeverity(o.Status)
		if !ok {
			continue
		}

		out = append(out, domain.Anomaly{
			ID:        "ORD-" + o.ID,
			ProductID: o.ProductID,
			Type:      domain.AnomalyStatusChange,
			Severity:  severity,
			Description: fmt.Sprintf("Order #%s for %s was %s by %s.",
				shortID(o.ID), o.ProductName, strings.ToLower(string(o.Status)), o.SupplierBusinessName),
			Date: o.CreatedAt.Format(domain.DateLayout),
		})
	}
	return out
}

// Compose appends order anomalies to base for retailers. Suppliers only see base.
func Compose(role domain.UserRole, base []domain.Anomaly, orders []domain.SupplyOrder) []domain.Anomaly {
	feed := make([]domain.Anomaly, 0, len(base))
	feed = append(feed, base...)
	if role != domain.RoleRetailer {
		return feed
	}
	return append(feed, OrderAnomalies(orders)...)
}

// CountNewUpdates counts orders in current that reached SHIPPED or CANCELLED
// since previous, where previous is the last polled snapshot. Orders missing
// from previous or previously PENDING count as new.
func CountNewUpdates(previous, current []domain.SupplyOrder) int {
	before := make(map[string]domain.OrderStatus, len(previous))
	for _, o := range previous {
		before[o.ID] = o.Status
	}

	count := 0
	for _, o := range current {
		if _, ok := statusSeverity(o.Status); !ok {
			continue
		}
		if status, seen := before[o.ID]; !seen || status == domain.OrderPending {
			count++
		}
	}
	return count
}

// RecentStatusChanges returns up to limit STATUS_CHANGE entries from feed,
// latest first. A non-positive limit uses DefaultFeedLimit.
func RecentStatusChanges(feed []domain.Anomaly, limit int) []domain.Anomaly {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	out := make([]domain.Anomaly, 0, limit)
	for i := len(feed) - 1; i >= 0 && len(out) < limit; i-- {
		if feed[i].Type == domain.AnomalyStatusChange {
			out = append(out, feed[i])
		}
	}
	return out
}

func statusSeverity(s domain.OrderStatus) (domain.Severity, bool) {
	switch s {
	case domain.OrderShipped:
		return domain.SeverityInfo, true
	case domain.OrderCancelled:
		return domain.SeverityCritical, true
	default:
		return "", false
	}
}

func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}

package relay

import (
	"StorePing/entity"
	"time"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// todayStart returns the local-day boundary in the tenant's timezone.
// Windows anchor on the server-assigned record time, never on the
// caller-supplied one, so backdated orders cannot skew "today".
func todayStart(tenant *entity.Tenant, now time.Time) time.Time {
	loc, err := time.LoadLocation(tenant.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// TodayStats aggregates the tenant's orders since its local midnight.
func (c *Relay) TodayStats(tenant *entity.Tenant) (entity.OrderStats, error) {
	return c.repo.OrderStatsSince(tenant.ID, todayStart(tenant, time.Now()))
}

// WeekStats aggregates over the trailing 7×24h window.
func (c *Relay) WeekStats(tenant *entity.Tenant) (entity.OrderStats, error) {
	return c.repo.OrderStatsSince(tenant.ID, time.Now().Add(-weekWindow))
}

// MonthStats aggregates over the trailing 30×24h window.
func (c *Relay) MonthStats(tenant *entity.Tenant) (entity.OrderStats, error) {
	return c.repo.OrderStatsSince(tenant.ID, time.Now().Add(-monthWindow))
}

// RecentOrders returns the tenant's latest orders, newest first.
func (c *Relay) RecentOrders(tenant *entity.Tenant, limit int) ([]entity.Order, error) {
	return c.repo.RecentOrders(tenant.ID, limit)
}

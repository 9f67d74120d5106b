package notify

import (
	"StorePing/entity"
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of notification-worthy event kinds. Anything a
// webhook sends outside this set formats to "" and is dropped.
type Kind int

const (
	KindUnknown Kind = iota
	KindLowStock
	KindContactForm
	KindMaintenanceOn
	KindMaintenanceOff
	KindDailySummary
)

// KindOf maps a wire event type to its Kind; unknown strings stay KindUnknown.
func KindOf(eventType string) Kind {
	switch eventType {
	case "low_stock":
		return KindLowStock
	case "contact_form":
		return KindContactForm
	case "maintenance_on":
		return KindMaintenanceOn
	case "maintenance_off":
		return KindMaintenanceOff
	case "daily_summary":
		return KindDailySummary
	default:
		return KindUnknown
	}
}

func fmtCurrency(amount float64, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(whole, '.')
	intPart, fracPart := whole[:dot], whole[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return sign + symbol + b.String() + fracPart
}

func fmtClock(t time.Time) string {
	return t.Format("03:04 PM")
}

// FormatOrder renders the "new order" notification.
func FormatOrder(tenant *entity.Tenant, order *entity.Order, now time.Time) string {
	name := order.CustomerName
	if name == "" {
		name = "Unknown customer"
	}
	itemLabel := fmt.Sprintf("%d items", order.ItemCount)
	if order.ItemCount == 1 {
		itemLabel = "1 item"
	}
	return fmt.Sprintf(
		"🛒 *New Order*\n\n#%s\n%s\n%s · *%s*\n\n_%s_",
		order.OrderNumber, name, itemLabel,
		fmtCurrency(order.Total, tenant.CurrencySymbol),
		fmtClock(now),
	)
}

// FormatEvent renders a generic event for its kind, or "" when the kind is
// unrecognized and the event should be dropped.
func FormatEvent(kind Kind, payload map[string]any, symbol string) string {
	switch kind {
	case KindLowStock:
		product := stringField(payload, "product_name", "Unknown product")
		qty := stringField(payload, "quantity", "?")
		return fmt.Sprintf("⚠️ *Low Stock Alert*\n\n%s\nOnly *%s* left", product, qty)
	case KindContactForm:
		from := stringField(payload, "name", "Someone")
		subject := stringField(payload, "subject", "no subject")
		return fmt.Sprintf(
			"📩 *Contact Form*\n\nFrom: %s\nRe: %s\n\n_Check your email for the full message_",
			from, subject,
		)
	case KindMaintenanceOn:
		return "🔧 *Maintenance Mode ON*\nStore is now offline for visitors."
	case KindMaintenanceOff:
		return "✅ *Maintenance Mode OFF*\nStore is back online."
	case KindDailySummary:
		date := stringField(payload, "date", "Today")
		return fmt.Sprintf(
			"📊 *Daily Summary — %s*\n\nOrders: *%s*\nRevenue: *%s*\nAvg order: *%s*",
			date,
			stringField(payload, "order_count", "0"),
			fmtCurrency(floatField(payload, "revenue"), symbol),
			fmtCurrency(floatField(payload, "avg_order"), symbol),
		)
	default:
		return ""
	}
}

// FormatNewChat renders the notification for a freshly started session.
func FormatNewChat(session *entity.ChatSession, firstMessage string) string {
	return fmt.Sprintf(
		"💬 *New Chat — %s*\n\n%s\n\n📄 Page: `%s`\n🔑 Session: `%s`",
		session.VisitorName, firstMessage, session.Page, session.SessionID,
	)
}

// FormatFollowUp renders a follow-up message in an existing session.
func FormatFollowUp(session *entity.ChatSession, message string) string {
	return fmt.Sprintf("💬 *%s* (`%s`)\n\n%s", session.VisitorName, session.SessionID, message)
}

// FormatStats renders a stats window reply for the bot commands.
func FormatStats(title string, tenant *entity.Tenant, stats entity.OrderStats) string {
	return fmt.Sprintf(
		"📊 *%s*\n\nOrders: *%d*\nRevenue: *%s*\nAvg order: *%s*",
		title, stats.OrderCount,
		fmtCurrency(stats.Revenue, tenant.CurrencySymbol),
		fmtCurrency(stats.AvgOrder, tenant.CurrencySymbol),
	)
}

// FormatRecentOrders renders the /orders reply.
func FormatRecentOrders(tenant *entity.Tenant, orders []entity.Order) string {
	if len(orders) == 0 {
		return "No orders yet."
	}
	lines := []string{"🛒 *Recent Orders*\n"}
	for _, order := range orders {
		icon := "•"
		switch order.Status {
		case entity.OrderStatusPending:
			icon = "⏳"
		case entity.OrderStatusFulfilled:
			icon = "✅"
		case entity.OrderStatusCancelled:
			icon = "❌"
		}
		name := order.CustomerName
		if name == "" {
			name = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s #%s · %s · *%s*",
			icon, order.OrderNumber, name, fmtCurrency(order.Total, tenant.CurrencySymbol)))
	}
	return strings.Join(lines, "\n")
}

func stringField(payload map[string]any, key, fallback string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return fallback
	}
	switch value := v.(type) {
	case string:
		if value == "" {
			return fallback
		}
		return value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func floatField(payload map[string]any, key string) float64 {
	switch value := payload[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return 0
	}
}

package notify

import (
	"StorePing/entity"
	"strings"
	"testing"
	"time"
)

func TestFmtCurrencyGrouping(t *testing.T) {
	cases := []struct {
		amount float64
		symbol string
		want   string
	}{
		{0, "$", "$0.00"},
		{5, "$", "$5.00"},
		{1234.5, "$", "$1,234.50"},
		{1234567.89, "₹", "₹1,234,567.89"},
		{999.99, "€", "€999.99"},
		{-1234.5, "$", "-$1,234.50"},
		{42, "", "$42.00"},
	}
	for _, tc := range cases {
		got := fmtCurrency(tc.amount, tc.symbol)
		if got != tc.want {
			t.Errorf("fmtCurrency(%v, %q) = %q, want %q", tc.amount, tc.symbol, got, tc.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf("low_stock") != KindLowStock {
		t.Error("low_stock not recognized")
	}
	if KindOf("daily_summary") != KindDailySummary {
		t.Error("daily_summary not recognized")
	}
	if KindOf("order_shipped") != KindUnknown {
		t.Error("unknown type should map to KindUnknown")
	}
}

func TestFormatEventUnknownKindDrops(t *testing.T) {
	if got := FormatEvent(KindUnknown, map[string]any{"x": "y"}, "$"); got != "" {
		t.Fatalf("unknown kind should format to empty, got %q", got)
	}
}

func TestFormatEventLowStock(t *testing.T) {
	got := FormatEvent(KindLowStock, map[string]any{
		"product_name": "Silver Ring",
		"quantity":     float64(2),
	}, "$")
	if !strings.Contains(got, "Low Stock Alert") || !strings.Contains(got, "Silver Ring") {
		t.Fatalf("unexpected low stock text: %q", got)
	}
	if !strings.Contains(got, "*2*") {
		t.Fatalf("quantity should render as integer: %q", got)
	}
}

func TestFormatEventDailySummary(t *testing.T) {
	got := FormatEvent(KindDailySummary, map[string]any{
		"order_count": float64(7),
		"revenue":     1531.25,
		"avg_order":   218.75,
		"date":        "2026-03-14",
	}, "₹")
	for _, want := range []string{"Daily Summary — 2026-03-14", "Orders: *7*", "₹1,531.25", "₹218.75"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestFormatEventPayloadFallbacks(t *testing.T) {
	got := FormatEvent(KindContactForm, map[string]any{}, "$")
	if !strings.Contains(got, "From: Someone") || !strings.Contains(got, "Re: no subject") {
		t.Fatalf("missing fallbacks: %q", got)
	}
}

func TestFormatOrder(t *testing.T) {
	tenant := &entity.Tenant{CurrencySymbol: "$"}
	order := &entity.Order{
		OrderNumber:  "1042",
		CustomerName: "Priya",
		Total:        2350,
		ItemCount:    1,
	}
	now := time.Date(2026, 3, 14, 15, 4, 0, 0, time.UTC)

	got := FormatOrder(tenant, order, now)
	for _, want := range []string{"New Order", "#1042", "Priya", "1 item", "$2,350.00", "03:04 PM"} {
		if !strings.Contains(got, want) {
			t.Fatalf("order notification missing %q:\n%s", want, got)
		}
	}

	order.ItemCount = 3
	order.CustomerName = ""
	got = FormatOrder(tenant, order, now)
	if !strings.Contains(got, "3 items") || !strings.Contains(got, "Unknown customer") {
		t.Fatalf("unexpected plural/fallback rendering: %q", got)
	}
}

func TestFormatRecentOrdersEmpty(t *testing.T) {
	tenant := &entity.Tenant{CurrencySymbol: "$"}
	if got := FormatRecentOrders(tenant, nil); got != "No orders yet." {
		t.Fatalf("unexpected empty-list text: %q", got)
	}
}

func TestFormatRecentOrdersIcons(t *testing.T) {
	tenant := &entity.Tenant{CurrencySymbol: "$"}
	orders := []entity.Order{
		{OrderNumber: "1", CustomerName: "A", Total: 10, Status: entity.OrderStatusPending},
		{OrderNumber: "2", CustomerName: "B", Total: 20, Status: entity.OrderStatusFulfilled},
		{OrderNumber: "3", Total: 30, Status: entity.OrderStatusCancelled},
	}
	got := FormatRecentOrders(tenant, orders)
	for _, want := range []string{"⏳ #1", "✅ #2", "❌ #3", "Unknown"} {
		if !strings.Contains(got, want) {
			t.Fatalf("recent orders missing %q:\n%s", want, got)
		}
	}
}

func TestFormatNewChat(t *testing.T) {
	session := &entity.ChatSession{
		SessionID:   "abc-123",
		VisitorName: "Priya",
		Page:        "/products/ring",
	}
	got := FormatNewChat(session, "Is this in stock?")
	for _, want := range []string{"New Chat — Priya", "Is this in stock?", "/products/ring", "abc-123"} {
		if !strings.Contains(got, want) {
			t.Fatalf("new chat notification missing %q:\n%s", want, got)
		}
	}
}

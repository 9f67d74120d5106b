package event

import (
	"StorePing/entity"
	"time"
)

type Core interface {
	ReceiveOrder(tenant *entity.Tenant, orderNumber, customerName string, total float64, itemCount int, receivedAt time.Time) error
	ReceiveEvent(tenant *entity.Tenant, eventType string, payload map[string]any) error
}

package relay

import (
	"StorePing/entity"
	"time"
)

// ReceiveOrder records an order under the tenant and fires the "new order"
// notification. The notification runs detached; a dispatch failure never
// rolls back the record.
func (c *Relay) ReceiveOrder(tenant *entity.Tenant, orderNumber, customerName string, total float64, itemCount int, receivedAt time.Time) error {
	if itemCount <= 0 {
		itemCount = 1
	}
	order := &entity.Order{
		TenantID:     tenant.ID,
		OrderNumber:  orderNumber,
		CustomerName: customerName,
		Total:        total,
		ItemCount:    itemCount,
		ReceivedAt:   receivedAt,
	}
	if err := c.repo.RecordOrder(order); err != nil {
		return err
	}

	if c.dispatcher != nil {
		c.dispatcher.OrderReceived(tenant, order)
	}
	return nil
}

// ReceiveEvent appends a generic event and dispatches a notification for
// recognized kinds; unknown kinds are stored but notify nothing.
func (c *Relay) ReceiveEvent(tenant *entity.Tenant, eventType string, payload map[string]any) error {
	event := &entity.Event{
		TenantID:  tenant.ID,
		EventType: eventType,
		Payload:   payload,
	}
	if err := c.repo.LogEvent(event); err != nil {
		return err
	}

	if c.dispatcher != nil {
		c.dispatcher.EventLogged(tenant, eventType, payload)
	}
	return nil
}

// Maintenance returns the tenant's maintenance flag, "off" when unset.
func (c *Relay) Maintenance(tenant *entity.Tenant) (string, error) {
	value, err := c.repo.GetSetting(tenant.ID, entity.SettingMaintenance)
	if err != nil {
		return "", err
	}
	if value == "" {
		value = "off"
	}
	return value, nil
}

// SetMaintenance toggles the maintenance flag; only on/off is accepted.
func (c *Relay) SetMaintenance(tenant *entity.Tenant, value string) error {
	if value != "on" && value != "off" {
		return ErrBadToggle
	}
	return c.repo.SetSetting(tenant.ID, entity.SettingMaintenance, value)
}

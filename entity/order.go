package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Order is an immutable fact appended under a tenant. ReceivedAt is the
// caller-supplied time and is display-only; RecordedAt is assigned by the
// server and is the anchor for every aggregation window.
type Order struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID     primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	OrderNumber  string             `json:"order_number" bson:"order_number"`
	CustomerName string             `json:"customer_name" bson:"customer_name"`
	Total        float64            `json:"total" bson:"total"`
	ItemCount    int                `json:"item_count" bson:"item_count"`
	Status       string             `json:"status" bson:"status"`
	ReceivedAt   time.Time          `json:"received_at" bson:"received_at"`
	RecordedAt   time.Time          `json:"recorded_at" bson:"recorded_at"`
}

// OrderStats is an aggregate over one trailing window, cancelled excluded.
type OrderStats struct {
	OrderCount int64   `json:"order_count" bson:"order_count"`
	Revenue    float64 `json:"revenue" bson:"revenue"`
	AvgOrder   float64 `json:"avg_order" bson:"avg_order"`
}

package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a generic business event appended under a tenant.
type Event struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID   primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	EventType  string             `json:"event_type" bson:"event_type"`
	Payload    map[string]any     `json:"payload" bson:"payload"`
	RecordedAt time.Time          `json:"recorded_at" bson:"recorded_at"`
}

package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingMaintenance is the maintenance-mode flag, value "on" or "off".
const SettingMaintenance = "maintenance"

// Setting is a last-write-wins string flag, at most one value per
// (tenant, key).
type Setting struct {
	TenantID  primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	Key       string             `json:"key" bson:"key"`
	Value     string             `json:"value" bson:"value"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

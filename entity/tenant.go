package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tenant is an independent storefront relayed by StorePing. The slug is
// immutable and unique; the secret authenticates webhook and link requests.
type Tenant struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug           string             `json:"slug" bson:"slug"`
	Name           string             `json:"name" bson:"name"`
	ApiSecret      string             `json:"-" bson:"api_secret"`
	TelegramChatId int64              `json:"telegram_chat_id,omitempty" bson:"telegram_chat_id,omitempty"`
	CurrencySymbol string             `json:"currency_symbol" bson:"currency_symbol"`
	Timezone       string             `json:"timezone" bson:"timezone"`
	Active         bool               `json:"active" bson:"active"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// Linked reports whether the tenant has a notification destination.
func (t *Tenant) Linked() bool {
	return t.TelegramChatId != 0
}

// DestinationLink binds an owner-side Telegram chat to a tenant. Re-linking
// the same chat updates the label and reactivates the binding.
type DestinationLink struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TenantID primitive.ObjectID `json:"tenant_id" bson:"tenant_id"`
	ChatID   int64              `json:"chat_id" bson:"chat_id"`
	ChatType string             `json:"chat_type" bson:"chat_type"`
	Label    string             `json:"label" bson:"label"`
	Active   bool               `json:"active" bson:"active"`
	AddedAt  time.Time          `json:"added_at" bson:"added_at"`
}

package repository

import (
	"StorePing/entity"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTenantBySlug returns the active tenant with the given slug, or nil.
func (m *MongoDB) GetTenantBySlug(slug string) (*entity.Tenant, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tenantsCollection)
	filter := bson.D{{Key: "slug", Value: slug}, {Key: "active", Value: true}}

	var tenant entity.Tenant
	err = collection.FindOne(m.ctx, filter).Decode(&tenant)
	if err != nil {
		return nil, m.findError(err)
	}
	return &tenant, nil
}

// GetTenantByID returns the tenant with the given id, or nil.
func (m *MongoDB) GetTenantByID(id primitive.ObjectID) (*entity.Tenant, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tenantsCollection)

	var tenant entity.Tenant
	err = collection.FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&tenant)
	if err != nil {
		return nil, m.findError(err)
	}
	return &tenant, nil
}

// GetTenantByChatID resolves a linked Telegram chat back to its tenant.
func (m *MongoDB) GetTenantByChatID(chatID int64) (*entity.Tenant, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	links := connection.Database(m.database).Collection(destinationsCollection)
	filter := bson.D{{Key: "chat_id", Value: chatID}, {Key: "active", Value: true}}

	var link entity.DestinationLink
	err = links.FindOne(m.ctx, filter).Decode(&link)
	if err != nil {
		return nil, m.findError(err)
	}

	tenants := connection.Database(m.database).Collection(tenantsCollection)
	var tenant entity.Tenant
	err = tenants.FindOne(m.ctx, bson.D{{Key: "_id", Value: link.TenantID}, {Key: "active", Value: true}}).Decode(&tenant)
	if err != nil {
		return nil, m.findError(err)
	}
	return &tenant, nil
}

// CreateTenant inserts a new tenant record. The slug must be unique; a
// duplicate insert surfaces as a mongo write error.
func (m *MongoDB) CreateTenant(tenant *entity.Tenant) (primitive.ObjectID, error) {
	connection, err := m.connect()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tenantsCollection)

	tenant.Active = true
	tenant.CreatedAt = time.Now()

	result, err := collection.InsertOne(m.ctx, tenant)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("mongodb insert tenant: %w", err)
	}
	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

// LinkDestination binds a Telegram chat to a tenant. Re-linking the same
// chat updates the label and reactivates the binding.
func (m *MongoDB) LinkDestination(tenantID primitive.ObjectID, chatID int64, chatType, label string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	links := connection.Database(m.database).Collection(destinationsCollection)
	filter := bson.D{{Key: "tenant_id", Value: tenantID}, {Key: "chat_id", Value: chatID}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "chat_type", Value: chatType},
			{Key: "label", Value: label},
			{Key: "active", Value: true},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "added_at", Value: time.Now()}}},
	}
	opts := options.Update().SetUpsert(true)
	_, err = links.UpdateOne(m.ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("mongodb upsert destination link: %w", err)
	}

	tenants := connection.Database(m.database).Collection(tenantsCollection)
	_, err = tenants.UpdateOne(m.ctx,
		bson.D{{Key: "_id", Value: tenantID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "telegram_chat_id", Value: chatID}}}},
	)
	if err != nil {
		return fmt.Errorf("mongodb set tenant chat: %w", err)
	}
	return nil
}

// AllLinkedTenants returns every active tenant with a notification
// destination, for the daily summary sweep.
func (m *MongoDB) AllLinkedTenants() ([]entity.Tenant, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(tenantsCollection)
	filter := bson.D{
		{Key: "active", Value: true},
		{Key: "telegram_chat_id", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: int64(0)}}},
	}

	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb find linked tenants: %w", err)
	}
	defer cursor.Close(m.ctx)

	var tenants []entity.Tenant
	if err = cursor.All(m.ctx, &tenants); err != nil {
		return nil, fmt.Errorf("mongodb decode tenants: %w", err)
	}
	return tenants, nil
}

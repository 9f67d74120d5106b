package repository

import (
	"StorePing/entity"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetSetting returns the value for (tenant, key), or "" when unset.
func (m *MongoDB) GetSetting(tenantID primitive.ObjectID, key string) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(settingsCollection)
	filter := bson.D{{Key: "tenant_id", Value: tenantID}, {Key: "key", Value: key}}

	var setting entity.Setting
	err = collection.FindOne(m.ctx, filter).Decode(&setting)
	if err != nil {
		return "", m.findError(err)
	}
	return setting.Value, nil
}

// SetSetting upserts (tenant, key) → value, last write wins.
func (m *MongoDB) SetSetting(tenantID primitive.ObjectID, key, value string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(settingsCollection)
	filter := bson.D{{Key: "tenant_id", Value: tenantID}, {Key: "key", Value: key}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: value},
		{Key: "updated_at", Value: time.Now()},
	}}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("mongodb upsert setting: %w", err)
	}
	return nil
}

package repository

import (
	"StorePing/entity"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordOrder appends an order fact. RecordedAt is always stamped here with
// the server clock; the caller-supplied ReceivedAt is kept for display only.
func (m *MongoDB) RecordOrder(order *entity.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	order.RecordedAt = time.Now()
	if order.ReceivedAt.IsZero() {
		order.ReceivedAt = order.RecordedAt
	}
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}

	_, err = collection.InsertOne(m.ctx, order)
	if err != nil {
		return fmt.Errorf("mongodb insert order: %w", err)
	}
	return nil
}

// OrderStatsSince aggregates count, revenue and average over orders recorded
// after the given instant, cancelled orders excluded.
func (m *MongoDB) OrderStatsSince(tenantID primitive.ObjectID, since time.Time) (entity.OrderStats, error) {
	var stats entity.OrderStats

	connection, err := m.connect()
	if err != nil {
		return stats, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "tenant_id", Value: tenantID},
			{Key: "recorded_at", Value: bson.D{{Key: "$gte", Value: since}}},
			{Key: "status", Value: bson.D{{Key: "$ne", Value: entity.OrderStatusCancelled}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "order_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
			{Key: "avg_order", Value: bson.D{{Key: "$avg", Value: "$total"}}},
		}}},
	}

	cursor, err := collection.Aggregate(m.ctx, pipeline)
	if err != nil {
		return stats, fmt.Errorf("mongodb aggregate orders: %w", err)
	}
	defer cursor.Close(m.ctx)

	var rows []entity.OrderStats
	if err = cursor.All(m.ctx, &rows); err != nil {
		return stats, fmt.Errorf("mongodb decode order stats: %w", err)
	}
	if len(rows) > 0 {
		stats = rows[0]
	}
	return stats, nil
}

// RecentOrders returns the latest orders for a tenant, newest first.
func (m *MongoDB) RecentOrders(tenantID primitive.ObjectID, limit int) ([]entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	filter := bson.D{{Key: "tenant_id", Value: tenantID}}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find orders: %w", err)
	}
	defer cursor.Close(m.ctx)

	var orders []entity.Order
	if err = cursor.All(m.ctx, &orders); err != nil {
		return nil, fmt.Errorf("mongodb decode orders: %w", err)
	}
	return orders, nil
}

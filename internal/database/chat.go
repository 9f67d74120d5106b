package repository

import (
	"StorePing/entity"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateChatSession inserts a session document. The caller embeds the first
// visitor message, so session and message become visible in one atomic write.
func (m *MongoDB) CreateChatSession(session *entity.ChatSession) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatSessionsCollection)

	_, err = collection.InsertOne(m.ctx, session)
	if err != nil {
		return fmt.Errorf("mongodb insert chat session: %w", err)
	}
	return nil
}

// GetChatSession returns the session with the given capability id, or nil.
func (m *MongoDB) GetChatSession(sessionID string) (*entity.ChatSession, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatSessionsCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}}

	var session entity.ChatSession
	err = collection.FindOne(m.ctx, filter).Decode(&session)
	if err != nil {
		return nil, m.findError(err)
	}
	return &session, nil
}

// AppendChatMessage pushes a message onto an open session. The open-status
// filter and the $push run as one document update, so the append is atomic
// and concurrent appends to the same session serialize inside MongoDB.
// Returns false when the session does not exist or is already closed.
func (m *MongoDB) AppendChatMessage(sessionID string, msg entity.ChatMessage) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatSessionsCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}, {Key: "status", Value: entity.SessionOpen}}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "messages", Value: msg}}}}

	result, err := collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("mongodb append chat message: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// CloseChatSession marks a session closed. Closing an already-closed
// session matches nothing and is a no-op.
func (m *MongoDB) CloseChatSession(sessionID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatSessionsCollection)
	filter := bson.D{{Key: "session_id", Value: sessionID}, {Key: "status", Value: entity.SessionOpen}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: entity.SessionClosed},
		{Key: "closed_at", Value: time.Now()},
	}}}

	_, err = collection.UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb close chat session: %w", err)
	}
	return nil
}

// OpenSessionsForTenant lists a tenant's open sessions, oldest first.
func (m *MongoDB) OpenSessionsForTenant(tenantID primitive.ObjectID) ([]entity.ChatSession, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatSessionsCollection)
	filter := bson.D{{Key: "tenant_id", Value: tenantID}, {Key: "status", Value: entity.SessionOpen}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find open sessions: %w", err)
	}
	defer cursor.Close(m.ctx)

	var sessions []entity.ChatSession
	if err = cursor.All(m.ctx, &sessions); err != nil {
		return nil, fmt.Errorf("mongodb decode chat sessions: %w", err)
	}
	return sessions, nil
}

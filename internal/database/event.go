package repository

import (
	"StorePing/entity"
	"fmt"
	"time"
)

// LogEvent appends a generic event fact under its tenant.
func (m *MongoDB) LogEvent(event *entity.Event) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(eventsCollection)

	event.RecordedAt = time.Now()
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}

	_, err = collection.InsertOne(m.ctx, event)
	if err != nil {
		return fmt.Errorf("mongodb insert event: %w", err)
	}
	return nil
}

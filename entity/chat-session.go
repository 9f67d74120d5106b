package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SessionOpen   = "open"
	SessionClosed = "closed"

	SenderVisitor = "visitor"
	SenderOwner   = "owner"
)

// ChatMessage is one message inside a session, immutable once written.
// SentAt is assigned by the engine at write time; array position inside the
// session document breaks ties.
type ChatMessage struct {
	Sender string    `json:"sender" bson:"sender"`
	Text   string    `json:"text" bson:"text"`
	SentAt time.Time `json:"-" bson:"sent_at"`
}

// ChatSession is one visitor↔owner conversation. SessionID is an opaque
// capability token: any holder of it may act as the visitor. Messages are
// embedded so that one document update is one atomic append.
type ChatSession struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	SessionID   string             `json:"session_id" bson:"session_id"`
	TenantID    primitive.ObjectID `json:"-" bson:"tenant_id"`
	VisitorName string             `json:"visitor_name" bson:"visitor_name"`
	Page        string             `json:"page" bson:"page"`
	Status      string             `json:"status" bson:"status"`
	Messages    []ChatMessage      `json:"messages" bson:"messages"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	ClosedAt    time.Time          `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Open reports whether the session still accepts messages.
func (s *ChatSession) Open() bool {
	return s.Status == SessionOpen
}

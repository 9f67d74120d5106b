package chat

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence the engine runs on. AppendChatMessage must be
// atomic with its open-status check and must serialize concurrent appends
// to the same session; the MongoDB repository satisfies both with
// single-document updates.
type Store interface {
	CreateChatSession(session *entity.ChatSession) error
	GetChatSession(sessionID string) (*entity.ChatSession, error)
	AppendChatMessage(sessionID string, msg entity.ChatMessage) (bool, error)
	CloseChatSession(sessionID string) error
}

// Notifier receives chat events for the owner's channel. Calls must not
// block: implementations dispatch in the background.
type Notifier interface {
	NewChat(tenant *entity.Tenant, session *entity.ChatSession, firstMessage string)
	ChatFollowUp(tenant *entity.Tenant, session *entity.ChatSession, message string)
}

// TenantSource resolves a session's tenant for notification metadata.
type TenantSource interface {
	GetTenantByID(id primitive.ObjectID) (*entity.Tenant, error)
}

// Engine is the chat session state machine: open → closed, ordered message
// log, poll-based delivery. It holds no locks; ordering and atomicity come
// from the store.
type Engine struct {
	store    Store
	tenants  TenantSource
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewEngine(log *slog.Logger) *Engine {
	return &Engine{
		log: log.With(sl.Module("chat engine")),
		now: time.Now,
	}
}

func (e *Engine) SetStore(store Store)            { e.store = store }
func (e *Engine) SetTenantSource(ts TenantSource) { e.tenants = ts }
func (e *Engine) SetNotifier(n Notifier)          { e.notifier = n }

// Start creates an open session with the first visitor message embedded, so
// both become visible atomically, and triggers the "new chat" notification.
// The returned session id is the visitor's only credential.
func (e *Engine) Start(tenant *entity.Tenant, visitorName, page, firstMessage string) (*entity.ChatSession, error) {
	firstMessage = strings.TrimSpace(firstMessage)
	if firstMessage == "" {
		return nil, ErrEmptyMessage
	}
	if visitorName == "" {
		visitorName = "Visitor"
	}
	if page == "" {
		page = "/"
	}

	session := &entity.ChatSession{
		SessionID:   uuid.NewString(),
		TenantID:    tenant.ID,
		VisitorName: visitorName,
		Page:        page,
		Status:      entity.SessionOpen,
		CreatedAt:   e.now(),
		Messages: []entity.ChatMessage{{
			Sender: entity.SenderVisitor,
			Text:   firstMessage,
			SentAt: e.now(),
		}},
	}

	if err := e.store.CreateChatSession(session); err != nil {
		return nil, err
	}

	e.log.With(
		sl.Secret("session", session.SessionID),
		slog.String("tenant", tenant.Slug),
		slog.String("page", page),
	).Info("chat session started")

	if e.notifier != nil {
		e.notifier.NewChat(tenant, session, firstMessage)
	}
	return session, nil
}

// PostVisitorMessage appends a visitor message and notifies the owner.
func (e *Engine) PostVisitorMessage(sessionID, text string) error {
	session, err := e.append(sessionID, entity.SenderVisitor, text)
	if err != nil {
		return err
	}

	if e.notifier != nil && e.tenants != nil {
		tenant, err := e.tenants.GetTenantByID(session.TenantID)
		if err != nil {
			e.log.With(sl.Err(err)).Warn("tenant lookup for follow-up")
		} else if tenant != nil {
			e.notifier.ChatFollowUp(tenant, session, text)
		}
	}
	return nil
}

// PostOwnerMessage appends an owner reply. The owner's own channel is not
// re-notified; the visitor picks the message up on the next poll.
func (e *Engine) PostOwnerMessage(sessionID, text string) error {
	_, err := e.append(sessionID, entity.SenderOwner, text)
	return err
}

func (e *Engine) append(sessionID, sender, text string) (*entity.ChatSession, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg := entity.ChatMessage{
		Sender: sender,
		Text:   text,
		SentAt: e.now(),
	}

	ok, err := e.store.AppendChatMessage(sessionID, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Nothing matched: either the id is unknown or the session closed.
		session, err := e.store.GetChatSession(sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		return nil, ErrSessionClosed
	}

	session, err := e.store.GetChatSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Poll is a point-in-time read: current status plus every message with
// sent_at strictly after since, in non-decreasing sent_at order. Ties keep
// insertion order. It never blocks; the widget re-invokes on an interval.
func (e *Engine) Poll(sessionID string, since time.Time) (string, []entity.ChatMessage, error) {
	session, err := e.store.GetChatSession(sessionID)
	if err != nil {
		return "", nil, err
	}
	if session == nil {
		return "", nil, ErrSessionNotFound
	}

	messages := make([]entity.ChatMessage, 0, len(session.Messages))
	for _, msg := range session.Messages {
		if msg.SentAt.After(since) {
			messages = append(messages, msg)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt.Before(messages[j].SentAt)
	})

	return session.Status, messages, nil
}

// Session returns the session for owner-side ownership checks.
func (e *Engine) Session(sessionID string) (*entity.ChatSession, error) {
	session, err := e.store.GetChatSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close transitions the session to closed. Closing an already-closed
// session succeeds as a no-op; either side may trigger it.
func (e *Engine) Close(sessionID string) error {
	session, err := e.store.GetChatSession(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if !session.Open() {
		return nil
	}
	if err := e.store.CloseChatSession(sessionID); err != nil {
		return err
	}

	e.log.With(
		sl.Secret("session", sessionID),
	).Info("chat session closed")
	return nil
}

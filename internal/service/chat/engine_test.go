package chat

import (
	"StorePing/entity"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mimics the repository's single-document semantics: append is
// atomic with the open-status check.
type memStore struct {
	sessions map[string]*entity.ChatSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*entity.ChatSession)}
}

func (s *memStore) CreateChatSession(session *entity.ChatSession) error {
	cp := *session
	s.sessions[session.SessionID] = &cp
	return nil
}

func (s *memStore) GetChatSession(sessionID string) (*entity.ChatSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *session
	cp.Messages = append([]entity.ChatMessage(nil), session.Messages...)
	return &cp, nil
}

func (s *memStore) AppendChatMessage(sessionID string, msg entity.ChatMessage) (bool, error) {
	session, ok := s.sessions[sessionID]
	if !ok || session.Status != entity.SessionOpen {
		return false, nil
	}
	session.Messages = append(session.Messages, msg)
	return true, nil
}

func (s *memStore) CloseChatSession(sessionID string) error {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	session.Status = entity.SessionClosed
	session.ClosedAt = time.Now()
	return nil
}

type recordedNotify struct {
	kind    string
	message string
}

type fakeNotifier struct {
	calls []recordedNotify
}

func (n *fakeNotifier) NewChat(tenant *entity.Tenant, session *entity.ChatSession, firstMessage string) {
	n.calls = append(n.calls, recordedNotify{kind: "new", message: firstMessage})
}

func (n *fakeNotifier) ChatFollowUp(tenant *entity.Tenant, session *entity.ChatSession, message string) {
	n.calls = append(n.calls, recordedNotify{kind: "follow-up", message: message})
}

type fakeTenants struct {
	tenant *entity.Tenant
}

func (f *fakeTenants) GetTenantByID(id primitive.ObjectID) (*entity.Tenant, error) {
	return f.tenant, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTenant() *entity.Tenant {
	return &entity.Tenant{
		ID:   primitive.NewObjectID(),
		Slug: "turtle-island",
		Name: "Turtle Island Jewelry",
	}
}

func testEngine() (*Engine, *memStore, *fakeNotifier) {
	store := newMemStore()
	notifier := &fakeNotifier{}
	tenant := testTenant()

	engine := NewEngine(discardLogger())
	engine.SetStore(store)
	engine.SetTenantSource(&fakeTenants{tenant: tenant})
	engine.SetNotifier(notifier)
	return engine, store, notifier
}

func TestStartEmbedsFirstMessage(t *testing.T) {
	engine, store, notifier := testEngine()

	session, err := engine.Start(testTenant(), "Priya", "/products/ring", "Is this in stock?")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if session.Status != entity.SessionOpen {
		t.Fatalf("expected open session, got %q", session.Status)
	}

	stored, _ := store.GetChatSession(session.SessionID)
	if stored == nil {
		t.Fatal("session not persisted")
	}
	if len(stored.Messages) != 1 {
		t.Fatalf("expected 1 embedded message, got %d", len(stored.Messages))
	}
	if stored.Messages[0].Sender != entity.SenderVisitor || stored.Messages[0].Text != "Is this in stock?" {
		t.Fatalf("unexpected first message: %+v", stored.Messages[0])
	}

	if len(notifier.calls) != 1 || notifier.calls[0].kind != "new" {
		t.Fatalf("expected one new-chat notification, got %+v", notifier.calls)
	}
}

func TestStartDefaultsVisitorAndPage(t *testing.T) {
	engine, _, _ := testEngine()

	session, err := engine.Start(testTenant(), "", "", "hello")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.VisitorName != "Visitor" {
		t.Fatalf("expected default visitor name, got %q", session.VisitorName)
	}
	if session.Page != "/" {
		t.Fatalf("expected default page, got %q", session.Page)
	}
}

func TestStartRejectsEmptyMessage(t *testing.T) {
	engine, _, _ := testEngine()

	if _, err := engine.Start(testTenant(), "Priya", "/", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestVisitorMessageNotifiesOwner(t *testing.T) {
	engine, _, notifier := testEngine()

	session, err := engine.Start(testTenant(), "Priya", "/", "first")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.PostVisitorMessage(session.SessionID, "second"); err != nil {
		t.Fatalf("visitor message: %v", err)
	}

	if len(notifier.calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.calls))
	}
	if notifier.calls[1].kind != "follow-up" || notifier.calls[1].message != "second" {
		t.Fatalf("unexpected follow-up notification: %+v", notifier.calls[1])
	}
}

func TestOwnerMessageDoesNotNotify(t *testing.T) {
	engine, _, notifier := testEngine()

	session, err := engine.Start(testTenant(), "Priya", "/", "first")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.PostOwnerMessage(session.SessionID, "we have it"); err != nil {
		t.Fatalf("owner message: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("owner reply should not notify, got %d notifications", len(notifier.calls))
	}
}

func TestAppendToUnknownSession(t *testing.T) {
	engine, _, _ := testEngine()

	if err := engine.PostVisitorMessage("no-such-session", "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAppendToClosedSession(t *testing.T) {
	engine, _, _ := testEngine()

	session, err := engine.Start(testTenant(), "Priya", "/", "first")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Close(session.SessionID); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := engine.PostVisitorMessage(session.SessionID, "anyone?"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if err := engine.PostOwnerMessage(session.SessionID, "too late"); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	engine, store, _ := testEngine()

	session, err := engine.Start(testTenant(), "Priya", "/", "first")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Close(session.SessionID); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := engine.Close(session.SessionID); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}

	stored, _ := store.GetChatSession(session.SessionID)
	if stored.Status != entity.SessionClosed {
		t.Fatalf("expected closed session, got %q", stored.Status)
	}
}

func TestCloseUnknownSession(t *testing.T) {
	engine, _, _ := testEngine()

	if err := engine.Close("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestPollFiltersBySince(t *testing.T) {
	engine, _, _ := testEngine()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := base
	engine.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	session, err := engine.Start(testTenant(), "Priya", "/", "first")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.PostOwnerMessage(session.SessionID, "reply"); err != nil {
		t.Fatalf("owner message: %v", err)
	}
	if err := engine.PostVisitorMessage(session.SessionID, "thanks"); err != nil {
		t.Fatalf("visitor message: %v", err)
	}

	status, all, err := engine.Poll(session.SessionID, time.Time{})
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if status != entity.SessionOpen {
		t.Fatalf("expected open status, got %q", status)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].SentAt.Before(all[i-1].SentAt) {
			t.Fatalf("messages out of order at %d", i)
		}
	}

	// Polling from the first message's timestamp must skip it.
	_, rest, err := engine.Poll(session.SessionID, all[0].SentAt)
	if err != nil {
		t.Fatalf("poll since: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 messages after since, got %d", len(rest))
	}
	if rest[0].Text != "reply" || rest[1].Text != "thanks" {
		t.Fatalf("unexpected messages: %+v", rest)
	}
}

func TestPollUnknownSession(t *testing.T) {
	engine, _, _ := testEngine()

	if _, _, err := engine.Poll("no-such-session", time.Time{}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

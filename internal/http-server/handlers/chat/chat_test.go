package chat

import (
	"StorePing/entity"
	chatservice "StorePing/internal/service/chat"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type fakeCore struct {
	session  *entity.ChatSession
	startErr error
	msgErr   error
	status   string
	messages []entity.ChatMessage
	pollErr  error
	closeErr error

	lastSince time.Time
	posted    []string
}

func (f *fakeCore) StartChat(slug, visitorName, page, firstMessage string) (*entity.ChatSession, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.session, nil
}

func (f *fakeCore) VisitorMessage(sessionID, text string) error {
	if f.msgErr != nil {
		return f.msgErr
	}
	f.posted = append(f.posted, text)
	return nil
}

func (f *fakeCore) PollChat(sessionID string, since time.Time) (string, []entity.ChatMessage, error) {
	f.lastSince = since
	if f.pollErr != nil {
		return "", nil, f.pollErr
	}
	return f.status, f.messages, nil
}

func (f *fakeCore) CloseChat(sessionID string) error {
	return f.closeErr
}

func testRouter(core Core) *chi.Mux {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Route("/chat/{id}", func(r chi.Router) {
		r.Post("/start", Start(log, core))
		r.Post("/message", Message(log, core))
		r.Get("/poll", Poll(log, core))
		r.Post("/close", Close(log, core))
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec, decoded
}

func TestStartReturnsSessionID(t *testing.T) {
	core := &fakeCore{session: &entity.ChatSession{SessionID: "sess-1", Status: entity.SessionOpen}}
	router := testRouter(core)

	rec, body := doJSON(t, router, http.MethodPost, "/chat/turtle-island/start",
		`{"visitor_name":"Priya","page":"/ring","first_message":"In stock?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["session_id"] != "sess-1" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestStartRequiresFirstMessage(t *testing.T) {
	router := testRouter(&fakeCore{})

	rec, body := doJSON(t, router, http.MethodPost, "/chat/turtle-island/start",
		`{"visitor_name":"Priya"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["reason"] != "validation" {
		t.Fatalf("unexpected reason: %v", body)
	}
}

func TestStartUnknownSlug(t *testing.T) {
	router := testRouter(&fakeCore{startErr: chatservice.ErrSessionNotFound})

	rec, body := doJSON(t, router, http.MethodPost, "/chat/nope/start",
		`{"first_message":"hello"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["reason"] != "not_found" {
		t.Fatalf("unexpected reason: %v", body)
	}
}

func TestMessageClosedSession(t *testing.T) {
	router := testRouter(&fakeCore{msgErr: chatservice.ErrSessionClosed})

	rec, body := doJSON(t, router, http.MethodPost, "/chat/sess-1/message",
		`{"message":"anyone?"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["reason"] != "bad_state" {
		t.Fatalf("unexpected reason: %v", body)
	}
}

func TestMessageRejectsBadBody(t *testing.T) {
	core := &fakeCore{}
	router := testRouter(core)

	rec, _ := doJSON(t, router, http.MethodPost, "/chat/sess-1/message", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(core.posted) != 0 {
		t.Fatalf("bad body must not reach the core, got %+v", core.posted)
	}
}

func TestPollParsesSinceMillis(t *testing.T) {
	sent := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	core := &fakeCore{
		status: entity.SessionOpen,
		messages: []entity.ChatMessage{
			{Sender: entity.SenderOwner, Text: "we have it", SentAt: sent},
		},
	}
	router := testRouter(core)

	rec, body := doJSON(t, router, http.MethodGet, "/chat/sess-1/poll?since=1765000000000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !core.lastSince.Equal(time.UnixMilli(1765000000000)) {
		t.Fatalf("since not parsed, got %v", core.lastSince)
	}
	if body["status"] != entity.SessionOpen {
		t.Fatalf("unexpected status in body: %v", body)
	}

	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("unexpected messages: %v", body["messages"])
	}
	msg := messages[0].(map[string]any)
	if msg["sender"] != entity.SenderOwner || msg["text"] != "we have it" {
		t.Fatalf("unexpected message: %v", msg)
	}
	if int64(msg["sent_at"].(float64)) != sent.UnixMilli() {
		t.Fatalf("sent_at should be unix millis, got %v", msg["sent_at"])
	}
}

func TestPollIgnoresBadSince(t *testing.T) {
	core := &fakeCore{status: entity.SessionOpen}
	router := testRouter(core)

	rec, _ := doJSON(t, router, http.MethodGet, "/chat/sess-1/poll?since=yesterday", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !core.lastSince.IsZero() {
		t.Fatalf("bad since should fall back to zero time, got %v", core.lastSince)
	}
}

func TestCloseIsOK(t *testing.T) {
	router := testRouter(&fakeCore{})

	rec, body := doJSON(t, router, http.MethodPost, "/chat/sess-1/close", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["ok"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}

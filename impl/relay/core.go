package relay

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrForeignSession means the session exists but belongs to another tenant.
	ErrForeignSession = errors.New("session belongs to another tenant")
	// ErrBadToggle rejects maintenance values other than on/off.
	ErrBadToggle = errors.New("maintenance value must be on or off")
)

type Repository interface {
	GetTenantBySlug(slug string) (*entity.Tenant, error)
	GetTenantByID(id primitive.ObjectID) (*entity.Tenant, error)
	GetTenantByChatID(chatID int64) (*entity.Tenant, error)
	LinkDestination(tenantID primitive.ObjectID, chatID int64, chatType, label string) error
	AllLinkedTenants() ([]entity.Tenant, error)

	RecordOrder(order *entity.Order) error
	OrderStatsSince(tenantID primitive.ObjectID, since time.Time) (entity.OrderStats, error)
	RecentOrders(tenantID primitive.ObjectID, limit int) ([]entity.Order, error)
	LogEvent(event *entity.Event) error

	GetSetting(tenantID primitive.ObjectID, key string) (string, error)
	SetSetting(tenantID primitive.ObjectID, key, value string) error

	OpenSessionsForTenant(tenantID primitive.ObjectID) ([]entity.ChatSession, error)
}

type ChatEngine interface {
	Start(tenant *entity.Tenant, visitorName, page, firstMessage string) (*entity.ChatSession, error)
	PostVisitorMessage(sessionID, text string) error
	PostOwnerMessage(sessionID, text string) error
	Poll(sessionID string, since time.Time) (string, []entity.ChatMessage, error)
	Close(sessionID string) error
	Session(sessionID string) (*entity.ChatSession, error)
}

type Dispatcher interface {
	OrderReceived(tenant *entity.Tenant, order *entity.Order)
	EventLogged(tenant *entity.Tenant, eventType string, payload map[string]any)
}

type AuthService interface {
	AuthenticateTenant(slug, secret string) (*entity.Tenant, error)
}

// Relay wires storage, the chat engine, the dispatcher and auth behind the
// interfaces the HTTP handlers and the bot consume.
type Relay struct {
	repo        Repository
	engine      ChatEngine
	dispatcher  Dispatcher
	authService AuthService
	log         *slog.Logger
}

func New(log *slog.Logger) *Relay {
	return &Relay{
		log: log.With(sl.Module("relay")),
	}
}

func (c *Relay) SetRepository(repo Repository)    { c.repo = repo }
func (c *Relay) SetChatEngine(engine ChatEngine)  { c.engine = engine }
func (c *Relay) SetDispatcher(d Dispatcher)       { c.dispatcher = d }
func (c *Relay) SetAuthService(auth AuthService)  { c.authService = auth }

// AuthenticateTenant is the middleware entry point.
func (c *Relay) AuthenticateTenant(slug, secret string) (*entity.Tenant, error) {
	return c.authService.AuthenticateTenant(slug, secret)
}

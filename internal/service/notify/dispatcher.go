package notify

import (
	"StorePing/entity"
	"StorePing/internal/config"
	"StorePing/internal/lib/sl"
	"log/slog"
	"time"
)

// Action is a tappable control attached to a notification. Its Data comes
// back to the bot as an opaque callback id.
type Action struct {
	Label string
	Data  string
}

// Sender delivers one formatted message to a destination chat. The
// implementation owns its transport timeout.
type Sender interface {
	Send(chatID int64, text string, actions []Action) error
}

// Dispatcher turns domain events into outbound owner notifications.
// Delivery is fire-and-forget: a failed send is logged and never unwinds
// the mutation that triggered it.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewDispatcher(conf *config.Config, log *slog.Logger) *Dispatcher {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		log.With(slog.String("timezone", conf.Timezone), sl.Err(err)).
			Warn("bad timezone, falling back to UTC")
		loc = time.UTC
	}
	return &Dispatcher{
		log: log.With(sl.Module("dispatcher")),
		loc: loc,
		now: time.Now,
	}
}

func (d *Dispatcher) SetSender(sender Sender) {
	d.sender = sender
}

// OrderReceived notifies the tenant's destination about a recorded order.
func (d *Dispatcher) OrderReceived(tenant *entity.Tenant, order *entity.Order) {
	if !tenant.Linked() {
		return
	}
	text := FormatOrder(tenant, order, d.now().In(d.loc))
	go d.deliver(tenant.TelegramChatId, text, nil)
}

// EventLogged notifies about a generic event. Unknown kinds are dropped
// silently so new producers stay forward-compatible.
func (d *Dispatcher) EventLogged(tenant *entity.Tenant, eventType string, payload map[string]any) {
	if !tenant.Linked() {
		return
	}
	text := FormatEvent(KindOf(eventType), payload, tenant.CurrencySymbol)
	if text == "" {
		d.log.With(
			slog.String("tenant", tenant.Slug),
			slog.String("event_type", eventType),
		).Debug("unrecognized event kind dropped")
		return
	}
	go d.deliver(tenant.TelegramChatId, text, nil)
}

// NewChat notifies about a freshly started session, with Reply and Close
// controls wired to the session capability.
func (d *Dispatcher) NewChat(tenant *entity.Tenant, session *entity.ChatSession, firstMessage string) {
	if !tenant.Linked() {
		return
	}
	go d.deliver(tenant.TelegramChatId, FormatNewChat(session, firstMessage), sessionActions(session))
}

// ChatFollowUp notifies about a visitor follow-up in an existing session.
func (d *Dispatcher) ChatFollowUp(tenant *entity.Tenant, session *entity.ChatSession, message string) {
	if !tenant.Linked() {
		return
	}
	go d.deliver(tenant.TelegramChatId, FormatFollowUp(session, message), sessionActions(session))
}

func sessionActions(session *entity.ChatSession) []Action {
	return []Action{
		{Label: "💬 Reply", Data: "reply:" + session.SessionID},
		{Label: "🔒 Close", Data: "close:" + session.SessionID},
	}
}

// deliver runs detached from the triggering request. Errors surface only in
// the dispatcher's own log.
func (d *Dispatcher) deliver(chatID int64, text string, actions []Action) {
	defer func() {
		if r := recover(); r != nil {
			d.log.With(slog.Any("panic", r)).Error("notification delivery")
		}
	}()

	if d.sender == nil {
		return
	}
	if err := d.sender.Send(chatID, text, actions); err != nil {
		d.log.With(
			slog.Int64("chat_id", chatID),
			sl.Err(err),
		).Error("notification send failed")
	}
}

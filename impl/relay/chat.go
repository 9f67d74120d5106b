package relay

import (
	"StorePing/entity"
	"StorePing/internal/service/chat"
	"time"
)

// StartChat resolves the tenant by slug and opens a session with the first
// visitor message. The visitor surface carries no secret; the returned
// session id becomes the capability for everything that follows.
func (c *Relay) StartChat(slug, visitorName, page, firstMessage string) (*entity.ChatSession, error) {
	tenant, err := c.repo.GetTenantBySlug(slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, chat.ErrSessionNotFound
	}
	return c.engine.Start(tenant, visitorName, page, firstMessage)
}

// VisitorMessage appends a visitor follow-up, addressed by capability only.
func (c *Relay) VisitorMessage(sessionID, text string) error {
	return c.engine.PostVisitorMessage(sessionID, text)
}

// PollChat reads session status and messages after since.
func (c *Relay) PollChat(sessionID string, since time.Time) (string, []entity.ChatMessage, error) {
	return c.engine.Poll(sessionID, since)
}

// CloseChat closes a session from the visitor side; idempotent.
func (c *Relay) CloseChat(sessionID string) error {
	return c.engine.Close(sessionID)
}

// TenantByChat resolves a linked owner chat to its tenant, for every bot
// command after the one-time /start link.
func (c *Relay) TenantByChat(chatID int64) (*entity.Tenant, error) {
	return c.repo.GetTenantByChatID(chatID)
}

// LinkDestination verifies the shared secret once and binds the chat to the
// tenant. Re-linking the same chat is an idempotent upsert.
func (c *Relay) LinkDestination(slug, secret string, chatID int64, chatType, label string) (*entity.Tenant, error) {
	tenant, err := c.authService.AuthenticateTenant(slug, secret)
	if err != nil {
		return nil, err
	}
	if err := c.repo.LinkDestination(tenant.ID, chatID, chatType, label); err != nil {
		return nil, err
	}
	return tenant, nil
}

// OpenSessions lists the tenant's open chat sessions.
func (c *Relay) OpenSessions(tenant *entity.Tenant) ([]entity.ChatSession, error) {
	return c.repo.OpenSessionsForTenant(tenant.ID)
}

// SessionForTenant fetches a session and enforces tenant ownership.
func (c *Relay) SessionForTenant(tenant *entity.Tenant, sessionID string) (*entity.ChatSession, error) {
	session, err := c.engine.Session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.TenantID != tenant.ID {
		return nil, ErrForeignSession
	}
	return session, nil
}

// OwnerReply appends an owner message after an ownership check. The owner's
// own channel is not re-notified.
func (c *Relay) OwnerReply(tenant *entity.Tenant, sessionID, text string) error {
	if _, err := c.SessionForTenant(tenant, sessionID); err != nil {
		return err
	}
	return c.engine.PostOwnerMessage(sessionID, text)
}

// OwnerClose closes a session after an ownership check; idempotent.
func (c *Relay) OwnerClose(tenant *entity.Tenant, sessionID string) error {
	if _, err := c.SessionForTenant(tenant, sessionID); err != nil {
		return err
	}
	return c.engine.Close(sessionID)
}

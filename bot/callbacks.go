package bot

import (
	"StorePing/impl/relay"
	"StorePing/internal/lib/sl"
	"StorePing/internal/service/chat"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const (
	callbackReply = "reply:"
	callbackClose = "close:"
)

func (t *TgBot) sessionCallbackFilter(cq *tgbotapi.CallbackQuery) bool {
	return strings.HasPrefix(cq.Data, callbackReply) || strings.HasPrefix(cq.Data, callbackClose)
}

// handleCallback serves the inline Reply/Close buttons attached to chat
// notifications. Reply arms the pending state so the owner's next plain text
// message lands in the session.
func (t *TgBot) handleCallback(b *tgbotapi.Bot, ctx *ext.Context) error {
	query := ctx.CallbackQuery
	chatId := ctx.EffectiveChat.Id

	if _, err := query.Answer(b, nil); err != nil {
		t.log.Warn("answering callback", sl.Err(err))
	}

	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}

	switch {
	case strings.HasPrefix(query.Data, callbackClose):
		sessionId := strings.TrimPrefix(query.Data, callbackClose)

		session, err := t.core.SessionForTenant(tenant, sessionId)
		if err != nil {
			t.replySessionError(chatId, sessionId, err)
			return nil
		}
		if err := t.core.OwnerClose(tenant, sessionId); err != nil {
			return fmt.Errorf("closing session: %w", err)
		}

		// Drop the buttons from the original notification.
		if query.Message != nil {
			_, _, err = b.EditMessageReplyMarkup(&tgbotapi.EditMessageReplyMarkupOpts{
				ChatId:    chatId,
				MessageId: query.Message.GetMessageId(),
			})
			if err != nil {
				t.log.Debug("clearing reply markup", sl.Err(err))
			}
		}

		t.plainResponse(chatId, fmt.Sprintf("🔒 Chat with *%s* (`%s`) closed.", visitorLabel(session), sessionId))

		t.log.With(
			slog.String("tenant", tenant.Slug),
			slog.String("session", sessionId),
		).Info("session closed via button")

	case strings.HasPrefix(query.Data, callbackReply):
		sessionId := strings.TrimPrefix(query.Data, callbackReply)

		session, err := t.core.SessionForTenant(tenant, sessionId)
		if err != nil {
			t.replySessionError(chatId, sessionId, err)
			return nil
		}
		if !session.Open() {
			t.plainResponse(chatId, fmt.Sprintf("Session `%s` is already closed.", sessionId))
			return nil
		}

		t.mu.Lock()
		t.pending[chatId] = sessionId
		t.mu.Unlock()

		t.plainResponse(chatId, fmt.Sprintf(
			"✏️ Replying to *%s* (`%s`)\n\nType your message now:",
			visitorLabel(session), sessionId))
	}

	return nil
}

// handlePendingReply catches the owner's plain text message after the Reply
// button armed a session. Messages outside reply mode are ignored.
func (t *TgBot) handlePendingReply(b *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id

	t.mu.Lock()
	sessionId, ok := t.pending[chatId]
	t.mu.Unlock()
	if !ok {
		return nil
	}

	text := strings.TrimSpace(ctx.EffectiveMessage.Text)
	if text == "" {
		return nil
	}

	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}

	t.mu.Lock()
	delete(t.pending, chatId)
	t.mu.Unlock()

	session, err := t.core.SessionForTenant(tenant, sessionId)
	if err != nil {
		t.replySessionError(chatId, sessionId, err)
		return nil
	}

	if err := t.core.OwnerReply(tenant, sessionId, text); err != nil {
		t.replySessionError(chatId, sessionId, err)
		return nil
	}

	// Confirm and offer the buttons again for the next round.
	t.send(chatId,
		fmt.Sprintf("✅ Sent to *%s*: _%s_", visitorLabel(session), text),
		&tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{{
			{Text: "💬 Reply again", CallbackData: callbackReply + sessionId},
			{Text: "🔒 Close", CallbackData: callbackClose + sessionId},
		}}})

	t.log.With(
		slog.String("tenant", tenant.Slug),
		slog.String("session", sessionId),
	).Info("owner replied via button")

	return nil
}

func (t *TgBot) replySessionError(chatId int64, sessionId string, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		t.plainResponse(chatId, fmt.Sprintf("Session `%s` not found.", sessionId))
	case errors.Is(err, relay.ErrForeignSession):
		t.plainResponse(chatId, "That session doesn't belong to your store.")
	case errors.Is(err, chat.ErrSessionClosed):
		t.plainResponse(chatId, fmt.Sprintf("Session `%s` is already closed.", sessionId))
	default:
		t.log.With(
			slog.String("session", sessionId),
		).Error("session command", sl.Err(err))
		t.plainResponse(chatId, "Something went wrong, try again later.")
	}
}

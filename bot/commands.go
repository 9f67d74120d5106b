package bot

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"StorePing/internal/service/notify"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// tenantForChat resolves the linked tenant for an owner chat, replying with
// linking instructions when the chat is not linked yet.
func (t *TgBot) tenantForChat(ctx *ext.Context) *entity.Tenant {
	chatId := ctx.EffectiveChat.Id

	tenant, err := t.core.TenantByChat(chatId)
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Error("resolving tenant for chat", sl.Err(err))
		t.plainResponse(chatId, "Something went wrong, try again later.")
		return nil
	}
	if tenant == nil {
		t.plainResponse(chatId,
			"This chat isn't linked to any store yet.\n"+
				"Use /start <store-slug> <api-secret> to link it.")
		return nil
	}
	return tenant
}

func (t *TgBot) cmdStart(b *tgbotapi.Bot, ctx *ext.Context) error {
	chat := ctx.EffectiveChat
	args := ctx.Args()[1:]

	if len(args) == 0 {
		tenant, err := t.core.TenantByChat(chat.Id)
		if err != nil {
			return fmt.Errorf("resolving tenant: %w", err)
		}
		if tenant != nil {
			t.plainResponse(chat.Id, fmt.Sprintf(
				"✅ This chat is linked to *%s*\nType /help to see available commands.",
				tenant.Name))
		} else {
			t.plainResponse(chat.Id,
				"Welcome to StorePing!\n\n"+
					"To link this chat to your store, run:\n"+
					"`/start your-store-slug your-api-secret`")
		}
		return nil
	}

	if len(args) < 2 {
		t.plainResponse(chat.Id, "Usage: `/start your-store-slug your-api-secret`")
		return nil
	}

	slug := strings.ToLower(strings.TrimSpace(args[0]))
	secret := strings.TrimSpace(args[1])

	label := chat.Title
	if label == "" {
		label = chat.Username
	}
	if label == "" {
		label = "owner chat"
	}

	tenant, err := t.core.LinkDestination(slug, secret, chat.Id, chat.Type, label)
	if err != nil {
		t.log.With(
			slog.Int64("id", chat.Id),
			slog.String("slug", slug),
		).Warn("linking chat", sl.Err(err))
		t.plainResponse(chat.Id, "Wrong store slug or secret. Check your credentials.")
		return nil
	}

	t.plainResponse(chat.Id, fmt.Sprintf(
		"✅ Linked! This chat will now receive notifications for *%s*\n\n"+
			"Type /help to see what you can do.", tenant.Name))

	t.log.With(
		slog.Int64("id", chat.Id),
		slog.String("tenant", tenant.Slug),
	).Info("chat linked")

	return nil
}

func (t *TgBot) cmdToday(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	stats, err := t.core.TodayStats(tenant)
	if err != nil {
		return fmt.Errorf("today stats: %w", err)
	}
	t.plainResponse(ctx.EffectiveChat.Id, notify.FormatStats("Today", tenant, stats))
	return nil
}

func (t *TgBot) cmdWeek(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	stats, err := t.core.WeekStats(tenant)
	if err != nil {
		return fmt.Errorf("week stats: %w", err)
	}
	t.plainResponse(ctx.EffectiveChat.Id, notify.FormatStats("Last 7 Days", tenant, stats))
	return nil
}

func (t *TgBot) cmdMonth(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	stats, err := t.core.MonthStats(tenant)
	if err != nil {
		return fmt.Errorf("month stats: %w", err)
	}
	t.plainResponse(ctx.EffectiveChat.Id, notify.FormatStats("Last 30 Days", tenant, stats))
	return nil
}

func (t *TgBot) cmdOrders(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	orders, err := t.core.RecentOrders(tenant, 5)
	if err != nil {
		return fmt.Errorf("recent orders: %w", err)
	}
	t.plainResponse(ctx.EffectiveChat.Id, notify.FormatRecentOrders(tenant, orders))
	return nil
}

func (t *TgBot) cmdMaintenance(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	chatId := ctx.EffectiveChat.Id
	args := ctx.Args()[1:]

	if len(args) == 0 {
		current, err := t.core.Maintenance(tenant)
		if err != nil {
			return fmt.Errorf("reading maintenance: %w", err)
		}
		icon, label := "✅", "OFF — store is live"
		if current == "on" {
			icon, label = "🔧", "ON — store is offline"
		}
		t.plainResponse(chatId, fmt.Sprintf(
			"%s *Maintenance is %s*\n\nTo change: `/maintenance on` or `/maintenance off`",
			icon, label))
		return nil
	}

	action := strings.ToLower(strings.TrimSpace(args[0]))
	if err := t.core.SetMaintenance(tenant, action); err != nil {
		t.plainResponse(chatId, "Usage: `/maintenance on` or `/maintenance off`")
		return nil
	}

	if action == "on" {
		t.plainResponse(chatId, "🔧 *Maintenance mode ON*\nStore is now showing maintenance page.")
	} else {
		t.plainResponse(chatId, "✅ *Maintenance mode OFF*\nStore is back online.")
	}

	t.log.With(
		slog.String("tenant", tenant.Slug),
		slog.String("action", action),
	).Info("maintenance toggled")

	return nil
}

func (t *TgBot) cmdReply(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	chatId := ctx.EffectiveChat.Id
	args := ctx.Args()[1:]

	if len(args) < 2 {
		t.plainResponse(chatId, "Usage: `/reply <session_id> your message here`")
		return nil
	}

	sessionId := args[0]
	text := strings.Join(args[1:], " ")

	session, err := t.core.SessionForTenant(tenant, sessionId)
	if err != nil {
		t.replySessionError(chatId, sessionId, err)
		return nil
	}
	if !session.Open() {
		t.plainResponse(chatId, fmt.Sprintf("Session `%s` is already closed.", sessionId))
		return nil
	}

	if err := t.core.OwnerReply(tenant, sessionId, text); err != nil {
		t.replySessionError(chatId, sessionId, err)
		return nil
	}

	t.plainResponse(chatId, fmt.Sprintf("✅ Replied to *%s* (`%s`)", visitorLabel(session), sessionId))

	t.log.With(
		slog.String("tenant", tenant.Slug),
		slog.String("session", sessionId),
	).Info("owner replied via command")

	return nil
}

func (t *TgBot) cmdClose(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	chatId := ctx.EffectiveChat.Id
	args := ctx.Args()[1:]

	if len(args) == 0 {
		t.plainResponse(chatId, "Usage: `/close <session_id>`")
		return nil
	}

	sessionId := args[0]
	session, err := t.core.SessionForTenant(tenant, sessionId)
	if err != nil {
		t.replySessionError(chatId, sessionId, err)
		return nil
	}

	if err := t.core.OwnerClose(tenant, sessionId); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}

	t.plainResponse(chatId, fmt.Sprintf("🔒 Session `%s` with *%s* closed.", sessionId, visitorLabel(session)))

	t.log.With(
		slog.String("tenant", tenant.Slug),
		slog.String("session", sessionId),
	).Info("session closed by owner")

	return nil
}

func (t *TgBot) cmdChats(b *tgbotapi.Bot, ctx *ext.Context) error {
	tenant := t.tenantForChat(ctx)
	if tenant == nil {
		return nil
	}
	chatId := ctx.EffectiveChat.Id

	sessions, err := t.core.OpenSessions(tenant)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		t.plainResponse(chatId, "No open chat sessions right now.")
		return nil
	}

	lines := []string{"💬 *Open Chat Sessions*\n"}
	for _, s := range sessions {
		page := s.Page
		if page == "" {
			page = "/"
		}
		lines = append(lines, fmt.Sprintf("• `%s` — %s on `%s`", s.SessionID, visitorLabel(&s), page))
	}
	lines = append(lines, "\n_Reply with: `/reply <id> message`_")

	t.plainResponse(chatId, strings.Join(lines, "\n"))
	return nil
}

func (t *TgBot) cmdHelp(b *tgbotapi.Bot, ctx *ext.Context) error {
	chatId := ctx.EffectiveChat.Id

	storeName := "your store"
	if tenant, err := t.core.TenantByChat(chatId); err == nil && tenant != nil {
		storeName = tenant.Name
	}

	t.plainResponse(chatId, fmt.Sprintf(
		"*StorePing — %s*\n"+
			"\n"+
			"*Orders & Stats*\n"+
			"/today — today's orders and revenue\n"+
			"/week — last 7 days\n"+
			"/month — last 30 days\n"+
			"/orders — 5 most recent orders\n"+
			"\n"+
			"*Store Control*\n"+
			"/maintenance — check or toggle maintenance mode\n"+
			"\n"+
			"*Website Chat*\n"+
			"/chats — list open chat sessions\n"+
			"/reply <id> <msg> — reply to a visitor\n"+
			"/close <id> — close a chat session\n"+
			"\n"+
			"/help — this message\n"+
			"\n"+
			"_You get automatic notifications when orders and chats come in._",
		storeName))

	return nil
}

func visitorLabel(session *entity.ChatSession) string {
	if session.VisitorName == "" {
		return "Visitor"
	}
	return session.VisitorName
}

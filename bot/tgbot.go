package bot

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// Core is everything the owner-side commands need from the relay.
type Core interface {
	TenantByChat(chatID int64) (*entity.Tenant, error)
	LinkDestination(slug, secret string, chatID int64, chatType, label string) (*entity.Tenant, error)

	TodayStats(tenant *entity.Tenant) (entity.OrderStats, error)
	WeekStats(tenant *entity.Tenant) (entity.OrderStats, error)
	MonthStats(tenant *entity.Tenant) (entity.OrderStats, error)
	RecentOrders(tenant *entity.Tenant, limit int) ([]entity.Order, error)

	Maintenance(tenant *entity.Tenant) (string, error)
	SetMaintenance(tenant *entity.Tenant, value string) error

	OpenSessions(tenant *entity.Tenant) ([]entity.ChatSession, error)
	SessionForTenant(tenant *entity.Tenant, sessionID string) (*entity.ChatSession, error)
	OwnerReply(tenant *entity.Tenant, sessionID, text string) error
	OwnerClose(tenant *entity.Tenant, sessionID string) error
}

// TgBot is the owner command interface: linking, stats, maintenance and
// chat replies, plus the inline Reply/Close controls on notifications.
// messageAPI is the slice of the Telegram client the send path uses;
// kept narrow so the delivery semantics are testable without the network.
type messageAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
}

type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	sender      messageAPI
	botUsername string
	adminId     int64
	core        Core

	// pending maps an owner chat to the session its next plain text
	// message replies to (armed by the inline Reply button).
	mu      sync.Mutex
	pending map[int64]string
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
		pending:     make(map[int64]string),
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api
	tgBot.sender = api

	return tgBot, nil
}

func (t *TgBot) SetCore(core Core) {
	t.core = core
}

func (t *TgBot) Start() error {

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// If an error is returned by a handler, log it and continue going.
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", t.cmdStart))
	dispatcher.AddHandler(handlers.NewCommand("today", t.cmdToday))
	dispatcher.AddHandler(handlers.NewCommand("week", t.cmdWeek))
	dispatcher.AddHandler(handlers.NewCommand("month", t.cmdMonth))
	dispatcher.AddHandler(handlers.NewCommand("orders", t.cmdOrders))
	dispatcher.AddHandler(handlers.NewCommand("maintenance", t.cmdMaintenance))
	dispatcher.AddHandler(handlers.NewCommand("reply", t.cmdReply))
	dispatcher.AddHandler(handlers.NewCommand("close", t.cmdClose))
	dispatcher.AddHandler(handlers.NewCommand("chats", t.cmdChats))
	dispatcher.AddHandler(handlers.NewCommand("help", t.cmdHelp))

	dispatcher.AddHandler(handlers.NewCallback(t.sessionCallbackFilter, t.handleCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, t.handlePendingReply))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("owner bot started", slog.String("username", t.botUsername))

	// Idle, to keep updates coming in, and avoid bot stopping.
	updater.Idle()

	return nil
}

// SendMessage forwards a line to the admin chat (used by the log tee).
func (t *TgBot) SendMessage(msg string) {
	if t.adminId == 0 {
		return
	}
	t.plainResponse(t.adminId, msg)
}

// plainResponse is the fire-and-forget variant for command replies; the
// send path has already logged any failure.
func (t *TgBot) plainResponse(chatId int64, text string) {
	t.send(chatId, text, nil)
}

// send delivers one message, MarkdownV2 first with a plain-text retry, and
// reports the final outcome so callers with retry semantics can act on it.
func (t *TgBot) send(chatId int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {

	text = strings.ReplaceAll(text, "**", "*")

	sanitized := sanitize(text)

	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return nil
	}

	opts := &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	}
	if markup != nil {
		opts.ReplyMarkup = *markup
	}

	_, err := t.sender.SendMessage(chatId, sanitized, opts)
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))

		plain := &tgbotapi.SendMessageOpts{}
		if markup != nil {
			plain.ReplyMarkup = *markup
		}
		_, err = t.sender.SendMessage(chatId, text, plain)
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
			return err
		}
	}
	return nil
}

// sanitize escapes MarkdownV2 reserved characters, leaving * and ` alone so
// our own bold/code formatting survives.
func sanitize(input string) string {
	reservedChars := "\\_{}#+-.!|()[]>=~"

	var sanitized strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sanitized.WriteByte('\\')
		}
		sanitized.WriteRune(char)
	}
	return sanitized.String()
}

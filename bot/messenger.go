package bot

import (
	"StorePing/internal/service/notify"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Send delivers a dispatcher notification to a linked chat, attaching the
// inline actions as callback buttons. Satisfies notify.Sender. The returned
// error is the final delivery outcome; the summary scheduler relies on it
// to retry unsent summaries.
func (t *TgBot) Send(chatID int64, text string, actions []notify.Action) error {
	if len(actions) == 0 {
		return t.send(chatID, text, nil)
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, action := range actions {
		row = append(row, tgbotapi.InlineKeyboardButton{
			Text:         action.Label,
			CallbackData: action.Data,
		})
	}

	return t.send(chatID, text, &tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{row},
	})
}

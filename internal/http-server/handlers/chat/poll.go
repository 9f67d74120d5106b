package chat

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type wireMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	SentAt int64  `json:"sent_at"`
}

// Poll is the widget's 3-second heartbeat: a single point-in-time read of
// status plus messages with sent_at strictly after ?since= (unix ms). It
// never holds the connection.
func Poll(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		since := time.Time{}
		if raw := r.URL.Query().Get("since"); raw != "" {
			ms, err := strconv.ParseInt(raw, 10, 64)
			if err == nil && ms > 0 {
				since = time.UnixMilli(ms)
			}
		}

		status, messages, err := handler.PollChat(sessionID, since)
		if err != nil {
			renderChatError(w, r, log, err)
			return
		}

		wire := make([]wireMessage, 0, len(messages))
		for _, msg := range messages {
			wire = append(wire, wireMessage{
				Sender: msg.Sender,
				Text:   msg.Text,
				SentAt: msg.SentAt.UnixMilli(),
			})
		}

		render.JSON(w, r, map[string]any{
			"ok":       true,
			"status":   status,
			"messages": wire,
		})
	}
}

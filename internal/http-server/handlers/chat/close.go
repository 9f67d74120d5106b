package chat

import (
	"StorePing/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Close ends the session from the visitor side. Closing twice is success.
func Close(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		if err := handler.CloseChat(sessionID); err != nil {
			renderChatError(w, r, log, err)
			return
		}

		render.JSON(w, r, response.OK())
	}
}

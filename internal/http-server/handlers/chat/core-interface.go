package chat

import (
	"StorePing/entity"
	"StorePing/internal/lib/api/response"
	"StorePing/internal/lib/sl"
	chatservice "StorePing/internal/service/chat"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Core interface {
	StartChat(slug, visitorName, page, firstMessage string) (*entity.ChatSession, error)
	VisitorMessage(sessionID, text string) error
	PollChat(sessionID string, since time.Time) (string, []entity.ChatMessage, error)
	CloseChat(sessionID string) error
}

// renderChatError maps engine errors onto the wire taxonomy. The visitor
// widget keys off the reason codes: not_found stops the poll loop,
// bad_state shows "chat closed".
func renderChatError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.ReasonNotFound, "Session not found"))
	case errors.Is(err, chatservice.ErrSessionClosed):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.ReasonBadState, "Session is closed"))
	case errors.Is(err, chatservice.ErrEmptyMessage):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.ReasonValidation, "Message text is required"))
	default:
		log.With(sl.Err(err)).Error("chat request")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.ReasonInternal, "Internal error"))
	}
}

package chat

import (
	"StorePing/internal/lib/api/response"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type MessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// Message appends a visitor follow-up. The session id in the path is the
// only credential; holding it means being the visitor.
func Message(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.ReasonValidation, "Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.ReasonValidation, err.Error()))
			return
		}

		if err := handler.VisitorMessage(sessionID, req.Message); err != nil {
			renderChatError(w, r, log, err)
			return
		}

		render.JSON(w, r, response.OK())
	}
}

package chat

import (
	"StorePing/internal/lib/api/response"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type StartRequest struct {
	VisitorName  string `json:"visitor_name"`
	Page         string `json:"page"`
	FirstMessage string `json:"first_message" validate:"required"`
}

// Start opens a session for the tenant in the {id} path slot (the slug on
// this one route). Session creation and the first message commit together;
// the response carries the capability id the widget uses from now on.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "id")

		var req StartRequest
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

		session, err := handler.StartChat(slug, req.VisitorName, req.Page, req.FirstMessage)
		if err != nil {
			renderChatError(w, r, log, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"ok":         true,
			"session_id": session.SessionID,
		})
	}
}

package event

import (
	"StorePing/internal/lib/api/cont"
	"StorePing/internal/lib/api/response"
	"StorePing/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type GenericRequest struct {
	EventType string         `json:"event_type" validate:"required"`
	Payload   map[string]any `json:"payload"`
}

// Generic receives any non-order business event for the authenticated
// tenant. Recognized kinds notify the owner; unknown kinds are stored and
// dropped from dispatch.
func Generic(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := cont.GetTenant(r.Context())

		var req GenericRequest
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

		if err := handler.ReceiveEvent(tenant, req.EventType, req.Payload); err != nil {
			log.With(sl.Err(err)).Error("receive generic event")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ReasonInternal, "Failed to record event"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}

package event

import (
	"StorePing/internal/lib/api/cont"
	"StorePing/internal/lib/api/response"
	"StorePing/internal/lib/sl"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type OrderRequest struct {
	OrderNumber  string  `json:"order_number" validate:"required"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total" validate:"gte=0"`
	ItemCount    int     `json:"item_count"`
	ReceivedAt   int64   `json:"received_at"`
}

// Order receives a webhook order for the authenticated tenant. The
// caller's received_at is stored for display; aggregation uses the server
// clock assigned at record time.
func Order(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := cont.GetTenant(r.Context())

		var req OrderRequest
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

		var receivedAt time.Time
		if req.ReceivedAt > 0 {
			receivedAt = time.Unix(req.ReceivedAt, 0)
		}

		err := handler.ReceiveOrder(tenant, req.OrderNumber, req.CustomerName, req.Total, req.ItemCount, receivedAt)
		if err != nil {
			log.With(sl.Err(err)).Error("receive order")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ReasonInternal, "Failed to record order"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}

package maintenance

import (
	"StorePing/entity"
	"StorePing/internal/lib/api/cont"
	"StorePing/internal/lib/api/response"
	"StorePing/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type Core interface {
	Maintenance(tenant *entity.Tenant) (string, error)
}

// Status reports the maintenance flag so the storefront can decide whether
// to show its maintenance page.
func Status(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := cont.GetTenant(r.Context())

		value, err := handler.Maintenance(tenant)
		if err != nil {
			log.With(sl.Err(err)).Error("get maintenance setting")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ReasonInternal, "Failed to read maintenance state"))
			return
		}

		render.JSON(w, r, map[string]any{
			"ok":          true,
			"maintenance": value,
		})
	}
}

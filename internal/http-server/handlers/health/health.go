package health

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Check is the unauthenticated liveness probe.
func Check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"status":  "ok",
			"service": "storeping",
			"time":    time.Now().Unix(),
		})
	}
}

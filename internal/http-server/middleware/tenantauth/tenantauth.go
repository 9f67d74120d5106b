package tenantauth

import (
	"StorePing/internal/lib/api/cont"
	"StorePing/internal/lib/api/response"
	"StorePing/internal/lib/sl"
	"StorePing/internal/service/auth"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"StorePing/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Authenticator resolves a slug/secret pair to a tenant, failing closed
// with auth.ErrUnauthorized on any mismatch.
type Authenticator interface {
	AuthenticateTenant(slug, secret string) (*entity.Tenant, error)
}

// New authenticates tenant-scoped routes: the {slug} URL param plus a
// bearer secret, verified in constant time downstream. The response never
// reveals whether the slug or the secret was wrong.
func New(log *slog.Logger, authenticator Authenticator) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.tenantauth")
	log.With(mod).Info("tenant auth middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			xRemote := r.Header.Get("X-Forwarded-For")
			if xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			loggerPtr := &logger
			defer func() {
				(*loggerPtr).With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			slug := chi.URLParam(r, "slug")
			if slug == "" {
				*loggerPtr = (*loggerPtr).With(sl.Err(fmt.Errorf("slug not found in path")))
				authFailed(ww, r)
				return
			}
			*loggerPtr = (*loggerPtr).With(slog.String("slug", slug))

			secret := ""
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				secret = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
			if secret == "" {
				*loggerPtr = (*loggerPtr).With(sl.Err(fmt.Errorf("bearer secret not found")))
				authFailed(ww, r)
				return
			}

			tenant, err := authenticator.AuthenticateTenant(slug, secret)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthorized) {
					*loggerPtr = (*loggerPtr).With(sl.Err(err))
				}
				authFailed(ww, r)
				return
			}
			*loggerPtr = (*loggerPtr).With(slog.String("tenant", tenant.Name))
			ctx := cont.PutTenant(r.Context(), tenant)

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(response.ReasonUnauthorized, "Unauthorized"))
}

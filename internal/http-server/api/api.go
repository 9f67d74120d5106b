package api

import (
	"StorePing/internal/config"
	"StorePing/internal/http-server/handlers/chat"
	"StorePing/internal/http-server/handlers/errors"
	"StorePing/internal/http-server/handlers/event"
	"StorePing/internal/http-server/handlers/health"
	"StorePing/internal/http-server/handlers/maintenance"
	"StorePing/internal/http-server/middleware/tenantauth"
	"StorePing/internal/lib/sl"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	tenantauth.Authenticator
	event.Core
	chat.Core
	maintenance.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := newRouter(conf, log, handler)

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}

func newRouter(conf *config.Config, log *slog.Logger, handler Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Timeout(15 * time.Second))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	// The chat widget calls these routes from the storefront origin.
	if len(conf.Cors.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: conf.Cors.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))
	}
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/health", health.Check())

	router.Route("/api/v1", func(v1 chi.Router) {
		// Tenant-scoped webhook routes: slug + bearer secret.
		v1.Route("/event/{slug}", func(r chi.Router) {
			r.Use(tenantauth.New(log, handler))
			r.Post("/order", event.Order(log, handler))
			r.Post("/generic", event.Generic(log, handler))
		})
		v1.Route("/maintenance/{slug}", func(r chi.Router) {
			r.Use(tenantauth.New(log, handler))
			r.Get("/", maintenance.Status(log, handler))
		})
		// Visitor chat routes: no middleware. On /start the {id} slot is
		// the tenant slug; everywhere else it is the session capability.
		v1.Route("/chat/{id}", func(r chi.Router) {
			r.Post("/start", chat.Start(log, handler))
			r.Post("/message", chat.Message(log, handler))
			r.Get("/poll", chat.Poll(log, handler))
			r.Post("/close", chat.Close(log, handler))
		})
	})

	return router
}

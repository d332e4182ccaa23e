package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
	"github.com/DoyleJ11/sketchparty-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, wsOpts ws.Options, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/rooms/{code}", RoomSummary(reg))
	r.Get("/ws", ws.Handler(reg, wsOpts))
	return r
}

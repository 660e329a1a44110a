package api

import (
	"net/http"

	"creative-builder/internal/config"
	"creative-builder/internal/service"
	"creative-builder/internal/ws"
	"github.com/gorilla/websocket"
)

func NewRouter(
	cfg config.Config,
	hub *ws.Hub,
	sessionHub *ws.SessionHub,
	styleSvc *service.StyleService,
	creativeSvc *service.CreativeService,
) http.Handler {
	h := &Handler{
		cfg:         cfg,
		hub:         hub,
		sessionHub:  sessionHub,
		styleSvc:    styleSvc,
		creativeSvc: creativeSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/v1/ws", h.WebSocket)
	mux.HandleFunc("/v1/preview/ws", h.PreviewWebSocket)
	mux.HandleFunc("/v1/templates", h.Templates)
	mux.HandleFunc("/v1/sessions", h.CreateSession)
	mux.HandleFunc("/v1/sessions/", h.Session)
	mux.HandleFunc("/v1/styles", h.Styles)
	mux.HandleFunc("/v1/styles/", h.Style)

	return limitBody(cfg.MaxUploadSizeBytes, mux)
}

func limitBody(maxSize int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		next.ServeHTTP(w, r)
	})
}

package gateway

import (
	_ "embed"
	"net/http"

	"github.com/flemzord/edgechat/internal/observability"
	"github.com/go-chi/chi/v5"
)

//go:embed static/index.html
var chatPage []byte

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/", g.handleIndex())
	r.Post("/api/chat", g.handleChat())
	r.Get("/health", g.handleHealth())
	r.Get("/status", g.handleStatus())
	r.Handle("/metrics", observability.MetricsHandler())

	return r
}

// handleIndex serves the embedded chat page.
func (g *Gateway) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(chatPage)
	}
}

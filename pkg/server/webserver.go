package server

import (
	"net/http"

	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-storefront/pkg/cache"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/content"
	"github.com/matst80/slask-storefront/pkg/facet"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/tracking"
)

// WebServer exposes the translator, the content routes and the response
// cache. Patterns, Publisher and Tracking are optional. Routes that change
// the pattern table or the cache require Admin.
type WebServer struct {
	Translator  *facet.Configuration
	Crawlers    []string
	Admin       *AdminAuth
	Content     *content.Collection
	Responses   *cache.CachedSync
	Patterns    content.PatternStore
	Publisher   messaging.Publisher
	Sessions    *tracking.Registry
	Tracking    tracking.Tracking
	SearchPath  string
	ContentPath string
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (ws *WebServer) Handle() *http.ServeMux {
	mux := http.NewServeMux()
	h := func(fn common.JsonHandlerFunc) http.HandlerFunc {
		return common.JsonHandler(ws.Sessions, ws.Tracking, fn)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/translate", h(ws.Translate))
	mux.HandleFunc("GET /api/link", h(ws.Link))
	mux.HandleFunc("GET /api/search", h(ws.Search))
	mux.HandleFunc("GET /api/content", h(ws.ResolveContent))
	mux.HandleFunc("GET /api/content/landing-pages", h(ws.LandingPages))
	mux.HandleFunc("PUT /api/content/patterns", ws.AuthMiddleware(h(ws.ResetPatterns)))
	mux.HandleFunc("POST /api/cache/seed", ws.AuthMiddleware(h(ws.Seed)))
	mux.HandleFunc("DELETE /api/cache", ws.AuthMiddleware(h(ws.Invalidate)))
	mux.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	return mux
}

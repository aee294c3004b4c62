package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TracingMiddleware starts a server span per request, named after the
// matched route template
func TracingMiddleware(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "http-request",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					return r.Method + " " + tmpl
				}
			}
			return r.Method + " " + r.URL.Path
		}),
	)
}

// RegisterMiddlewares installs logging and tracing on the router.
// Tracing runs first so the logging middleware sees the span.
func RegisterMiddlewares(router *mux.Router, limiter *RateLimiter) {
	router.Use(TracingMiddleware)
	router.Use(LoggingMiddleware)
	if limiter != nil {
		router.Use(limiter.Middleware)
	}
}

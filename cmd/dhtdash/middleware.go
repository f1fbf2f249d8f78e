package main

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// corsMiddleware allows the dashboard frontends in AllowedOrigins to call
// the API from the browser. Preflights answer 204 without reaching a route.
func (rm *RouteManager) corsMiddleware() mux.MiddlewareFunc {
	return handlers.CORS(
		handlers.AllowedOrigins(rm.Config.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.MaxAge(3600),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}

// metricsMiddleware records each request under its route template
func (rm *RouteManager) metricsMiddleware(next http.Handler) http.Handler {
	if rm.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		rm.Metrics.WrapHandler(route, next).ServeHTTP(w, r)
	})
}

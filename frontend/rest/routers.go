// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kr/secureheader"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/openblock/blockd/config"
)

// NewRouter sets up the admin API. Every route shares one rate limiter; a non-positive
// rate disables it.
func NewRouter(rateLimit float64, rateBurst int) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	var limiter func(http.Handler) http.Handler
	if rateLimit > 0 {
		limiter = rateLimiterMiddleware(rate.Limit(rateLimit), rateBurst)
	}

	for _, route := range controllerRoutes {
		var handler http.Handler = route.HandlerFunc
		for _, m := range route.Middleware {
			handler = m(handler)
		}
		handler = Logger(handler, route.Name, route.Workflow)
		if limiter != nil {
			handler = limiter(handler)
		}
		handler = secureHeaders(handler)

		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(handler)
	}

	router.
		Methods(http.MethodGet).
		Path(config.MetricsURL).
		Name("Metrics").
		Handler(promhttp.Handler())

	return router
}

// secureHeaders adds the default security headers. The API is served over plain HTTP, so
// HTTPS redirection stays off.
func secureHeaders(next http.Handler) http.Handler {
	c := *secureheader.DefaultConfig
	c.HTTPSRedirect = false
	c.Next = next
	return &c
}

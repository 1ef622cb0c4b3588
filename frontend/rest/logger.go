// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"net/http"
	"time"

	. "github.com/openblock/blockd/logging"
)

// RequestIDHeader lets a client choose the request ID that follows the request through
// the logs. The chosen ID is echoed back.
const RequestIDHeader = "X-Request-ID"

// statusRecorder remembers the status code written by the inner handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func Logger(inner http.Handler, routeName string, workflow Workflow) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := GenerateRequestContext(r.Context(), r.Header.Get(RequestIDHeader), ContextSourceREST, workflow,
			LogLayerRESTFrontend)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, RequestIDFromContext(ctx))

		logFields := LogFields{
			"method": r.Method,
			"uri":    r.RequestURI,
			"route":  routeName,
		}
		Logc(ctx).WithFields(logFields).Debug("REST API call received.")

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		inner.ServeHTTP(recorder, r)

		duration := time.Since(start)
		restOpsTotal.WithLabelValues(r.Method, routeName).Inc()
		restOpsSecondsTotal.WithLabelValues(r.Method, routeName).Observe(duration.Seconds())

		Logc(ctx).WithFields(logFields).WithFields(LogFields{
			"status":   recorder.status,
			"duration": duration,
		}).Debug("REST API call complete.")
	})
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package logging

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Log returns a log entry with no request-scoped fields.
func Log() *log.Entry {
	return log.NewEntry(log.StandardLogger())
}

// Logc returns a log entry carrying the request-scoped fields found in ctx.
func Logc(ctx context.Context) *log.Entry {
	if ctx == nil {
		return Log()
	}

	fields := log.Fields{}
	if v := ctx.Value(ContextKeyRequestID); v != nil {
		fields[string(ContextKeyRequestID)] = v
	}
	if v := ctx.Value(ContextKeyRequestSource); v != nil {
		fields[string(ContextKeyRequestSource)] = v
	}
	if v, ok := ctx.Value(ContextKeyWorkflow).(Workflow); ok && v != WorkflowNone {
		fields[string(ContextKeyWorkflow)] = v.String()
	}
	if v, ok := ctx.Value(ContextKeyLogLayer).(LogLayer); ok && v != LogLayerNone {
		fields[string(ContextKeyLogLayer)] = v.String()
	}
	if v := ctx.Value(ContextKeyAudit); v != nil {
		fields[string(ContextKeyAudit)] = v
	}

	return log.WithFields(fields)
}

// GenerateRequestContext returns a context carrying a request ID and source. Values already
// present in ctx win over the arguments, so nested calls keep the outermost request identity.
func GenerateRequestContext(
	ctx context.Context, requestID, requestSource string, workflow Workflow, layer LogLayer,
) context.Context {
	if ctx == nil {
		ctx = context.Background()
	} else {
		if v := ctx.Value(ContextKeyRequestID); v != nil {
			requestID = fmt.Sprint(v)
		}
		if v := ctx.Value(ContextKeyRequestSource); v != nil {
			requestSource = fmt.Sprint(v)
		}
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if requestSource == "" {
		requestSource = "Unknown"
	}
	ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)
	ctx = context.WithValue(ctx, ContextKeyRequestSource, requestSource)
	if workflow != WorkflowNone {
		ctx = context.WithValue(ctx, ContextKeyWorkflow, workflow)
	}
	if layer != LogLayerNone {
		ctx = context.WithValue(ctx, ContextKeyLogLayer, layer)
	}
	return ctx
}

// GenerateRequestContextForLayer rebinds the log layer of an existing context.
func GenerateRequestContextForLayer(ctx context.Context, layer LogLayer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ContextKeyLogLayer, layer)
}

// RequestIDFromContext returns the request ID in ctx, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(ContextKeyRequestID); v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// RequestSourceFromContext returns the request source in ctx, or "" if none is set.
func RequestSourceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(ContextKeyRequestSource); v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

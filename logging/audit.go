// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package logging

import (
	"context"
)

var auditor AuditLogger = newAuditLogger(false)

type AuditLogger interface {
	Log(ctx context.Context, event AuditEvent, fields LogFields, message string)
	Logf(ctx context.Context, event AuditEvent, fields LogFields, format string, args ...interface{})
}

type auditLogger struct {
	enabled bool
}

func InitAuditLogger(disabled bool) {
	auditor = newAuditLogger(disabled)
}

// Audit returns the process-wide audit logger. Audit entries are written at info level and
// carry an "audit" field naming the event.
func Audit() AuditLogger {
	return auditor
}

func newAuditLogger(disabled bool) AuditLogger {
	return &auditLogger{enabled: !disabled}
}

func (a *auditLogger) Log(ctx context.Context, event AuditEvent, fields LogFields, message string) {
	if a.enabled {
		ctx = context.WithValue(ctx, ContextKeyAudit, event)
		Logc(ctx).WithFields(fields).Info(message)
	}
}

func (a *auditLogger) Logf(ctx context.Context, event AuditEvent, fields LogFields, format string, args ...interface{}) {
	if a.enabled {
		ctx = context.WithValue(ctx, ContextKeyAudit, event)
		Logc(ctx).WithFields(fields).Infof(format, args...)
	}
}

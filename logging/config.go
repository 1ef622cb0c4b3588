// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package logging

const (
	TextFormat = "text"
	JSONFormat = "json"

	DefaultLogLevel   = "info"
	MaxLogEntryLength = 64000
)

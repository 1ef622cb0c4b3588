// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package frontend

// Plugin is a surface through which callers reach the orchestrator.
type Plugin interface {
	Activate() error
	Deactivate() error
	GetName() string
	Version() string
}

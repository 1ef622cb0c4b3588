// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import "strings"

// Host strings have the form "host@backend#pool"; the backend and pool parts are optional.

type HostLevel string

const (
	HostLevelHost    = HostLevel("host")
	HostLevelBackend = HostLevel("backend")
	HostLevelPool    = HostLevel("pool")

	// DefaultPoolName is reported for backends that do not expose pools.
	DefaultPoolName = "_pool0"
)

// ExtractHost returns one level of a host string. For the pool level, an empty string is
// returned when the host has no pool, unless useDefaultPool is set.
func ExtractHost(host string, level HostLevel, useDefaultPool bool) string {
	if host == "" {
		return ""
	}
	switch level {
	case HostLevelHost:
		host, _, _ = strings.Cut(host, "#")
		host, _, _ = strings.Cut(host, "@")
		return host
	case HostLevelPool:
		if _, pool, ok := strings.Cut(host, "#"); ok {
			return pool
		}
		if useDefaultPool {
			return DefaultPoolName
		}
		return ""
	default:
		backend, _, _ := strings.Cut(host, "#")
		return backend
	}
}

// AppendHost adds a pool to a backend host string. An empty pool leaves host unchanged.
func AppendHost(host, pool string) string {
	if host == "" || pool == "" {
		return host
	}
	return host + "#" + pool
}

// SameBackend reports whether two host strings refer to the same backend, ignoring pools.
func SameBackend(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return ExtractHost(a, HostLevelBackend, false) == ExtractHost(b, HostLevelBackend, false)
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	assert.True(t, Is(err, target), "expected error to be %v, got %v", target, err)
}

func TestStandardLibraryWrappers(t *testing.T) {
	base := New("base")
	wrapped := fmt.Errorf("outer: %w", base)

	assert.Equal(t, "base", base.Error())
	assertErrorIs(t, wrapped, base)

	var target *notFoundError
	assert.True(t, As(fmt.Errorf("outer: %w", NotFoundError("volume v1")), &target))
	assert.Equal(t, "volume v1", target.Error())
}

func TestAppend(t *testing.T) {
	var err error
	err = Append(err, nil)
	assert.NoError(t, err)

	err = Append(err, New("first"))
	err = Append(err, New("second"))
	assert.Len(t, Errors(err), 2)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		message   string
	}{
		{"not found", NotFoundError("volume %s not found", "v1"), IsNotFoundError, "volume v1 not found"},
		{"already exists", AlreadyExistsError("volume %s exists", "v1"), IsAlreadyExistsError, "volume v1 exists"},
		{"not ready", NotReadyError(), IsNotReadyError, "blockd is initializing, please try again later"},
		{"bootstrap", BootstrapError(New("store down")), IsBootstrapError, "blockd initialization failed; store down"},
		{"unsupported", UnsupportedError("version %s", "9.9"), IsUnsupportedError, "version 9.9"},
		{"invalid input", InvalidInputError("bad"), IsInvalidInputError, "bad"},
		{"timeout", TimeoutError("timed out after %ds", 5), IsTimeoutError, "timed out after 5s"},
		{"connection", ConnectionError("refused"), IsConnectionError, "refused"},
		{"unexpected status", UnexpectedStatusError("status is %s", "error"), IsUnexpectedStatusError, "status is error"},
		{
			"invalid replication target", InvalidReplicationTargetError("bad target %s", "b9"),
			IsInvalidReplicationTargetError, "bad target b9",
		},
		{
			"no valid backend", NoValidBackendError("no weighed backends available"), IsNoValidBackendError,
			"no valid backend was found; no weighed backends available",
		},
		{"service not found", ServiceNotFoundError("host h1"), IsServiceNotFoundError, "host h1"},
		{"volume driver", VolumeDriverError("array offline"), IsVolumeDriverError, "array offline"},
		{
			"unavailable during upgrade", UnavailableDuringUpgradeError("failover a cluster"),
			IsUnavailableDuringUpgradeError,
			"cannot failover a cluster during a rolling upgrade; wait until all services run the same version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
			assert.False(t, tt.predicate(nil))
			assert.False(t, tt.predicate(New("plain")))

			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.True(t, tt.predicate(wrapped), "predicate should see through wrapping")
		})
	}
}

func TestWrapWithErrors(t *testing.T) {
	inner := New("inner")

	conn := WrapWithConnectionError(inner, "")
	assert.Equal(t, "inner", conn.Error())
	assertErrorIs(t, conn, inner)

	drv := WrapWithVolumeDriverError(nil, "only message")
	assert.Equal(t, "only message", drv.Error())
}

func TestExpectedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"invalid target", InvalidReplicationTargetError("x"), true},
		{"no valid backend", NoValidBackendError("x"), true},
		{"service not found", ServiceNotFoundError("x"), true},
		{"driver error", VolumeDriverError("x"), false},
		{"plain", New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpectedError(tt.err))
		})
	}
}

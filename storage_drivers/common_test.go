// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storagedrivers

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/utils/errors"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

func validBackend() *config.BackendConfig {
	return &config.BackendConfig{
		Name:   "lvm",
		Host:   "node1",
		Driver: FakeStorageDriverName,
		Pools:  []config.PoolConfig{{Name: "a", TotalCapacityGB: 100}},
	}
}

func TestValidateCommonSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.BackendConfig)
		wantErr bool
	}{
		{"valid", func(*config.BackendConfig) {}, false},
		{"no name", func(b *config.BackendConfig) { b.Name = "" }, true},
		{"no driver", func(b *config.BackendConfig) { b.Driver = "" }, true},
		{"bad limit", func(b *config.BackendConfig) {
			b.Options = map[string]string{OptionLimitVolumeSize: "lots"}
		}, true},
		{"good limit", func(b *config.BackendConfig) {
			b.Options = map[string]string{OptionLimitVolumeSize: "50GiB"}
		}, false},
		{"duplicate pool", func(b *config.BackendConfig) {
			b.Pools = append(b.Pools, config.PoolConfig{Name: "a"})
		}, true},
		{"bad reserve", func(b *config.BackendConfig) { b.Pools[0].ReservedPercentage = 101 }, true},
		{"reserved target", func(b *config.BackendConfig) {
			b.ReplicationTargets = []string{config.FailbackTarget}
		}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend := validBackend()
			test.mutate(backend)
			err := ValidateCommonSettings(context.Background(), backend)
			if test.wantErr {
				assert.True(t, errors.IsInvalidInputError(err), "expected invalid input, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckVolumeSizeLimits(t *testing.T) {
	ctx := context.Background()

	limited, _, err := CheckVolumeSizeLimits(ctx, 1000, "")
	require.NoError(t, err)
	assert.False(t, limited)

	limited, limit, err := CheckVolumeSizeLimits(ctx, 10, "20GiB")
	require.NoError(t, err)
	assert.True(t, limited)
	assert.Equal(t, uint64(20<<30), limit)

	_, _, err = CheckVolumeSizeLimits(ctx, 21, "20GiB")
	assert.True(t, errors.IsUnsupportedError(err))

	_, _, err = CheckVolumeSizeLimits(ctx, 1, "twenty")
	assert.Error(t, err)
}

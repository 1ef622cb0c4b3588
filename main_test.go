// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package main

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

const testConfig = `
log:
  level: warning
rest:
  port: "9000"
  rate_limit: 5
store:
  type: memory
backends:
  - name: array
    host: node1
    driver: fake
`

func TestBuildOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/blockd/config.yaml", []byte(testConfig), 0o644))

	tests := []struct {
		name    string
		argv    []string
		check   func(t *testing.T, opts *config.Options)
		wantErr bool
	}{
		{
			name: "defaults",
			argv: []string{},
			check: func(t *testing.T, opts *config.Options) {
				assert.Equal(t, "8000", opts.REST.Port)
				assert.Equal(t, config.StoreTypeMemory, opts.Store.Type)
				assert.True(t, opts.REST.Enabled)
			},
		},
		{
			name: "file values",
			argv: []string{"--config", "/etc/blockd/config.yaml"},
			check: func(t *testing.T, opts *config.Options) {
				assert.Equal(t, "warning", opts.Log.Level)
				assert.Equal(t, "9000", opts.REST.Port)
				assert.Equal(t, 5.0, opts.REST.RateLimit)
				assert.Len(t, opts.Backends, 1)
				assert.Equal(t, 60*time.Second, opts.Scheduler.DriverInitWaitTime)
			},
		},
		{
			name: "flags override file",
			argv: []string{"--config", "/etc/blockd/config.yaml", "--port", "9100", "--debug", "--rest=false"},
			check: func(t *testing.T, opts *config.Options) {
				assert.Equal(t, "9100", opts.REST.Port)
				assert.True(t, opts.Log.Debug)
				assert.False(t, opts.REST.Enabled)
				assert.Equal(t, "warning", opts.Log.Level)
			},
		},
		{
			name:    "postgres without DSN",
			argv:    []string{"--store", config.StoreTypePostgres},
			wantErr: true,
		},
		{
			name:    "missing config file",
			argv:    []string{"--config", "/nowhere.yaml"},
			wantErr: true,
		},
		{
			name:    "unknown store",
			argv:    []string{"--store", "etcd"},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			args := &cmdLineArgs{}
			flags := newFlagSet(args)
			require.NoError(t, flags.Parse(test.argv))

			opts, err := buildOptions(fs, flags, args)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			test.check(t, opts)
		})
	}
}

func TestNewStoreClient(t *testing.T) {
	client, err := newStoreClient(context.Background(), &config.StoreOptions{Type: config.StoreTypeMemory})
	require.NoError(t, err)
	assert.Equal(t, persistentstore.MemoryStore, client.GetType())

	_, err = newStoreClient(context.Background(), &config.StoreOptions{Type: "etcd"})
	assert.Error(t, err)
}

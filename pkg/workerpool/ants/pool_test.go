// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package ants

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, runtime.NumCPU(), cfg.NumWorkers)
	assert.True(t, cfg.PreAlloc)
	assert.Equal(t, 10*time.Second, cfg.ExpiryDuration)

	cfg = NewConfig(
		WithName("rpc"),
		WithNumWorkers(4),
		WithPreAlloc(false),
		WithNonBlocking(true),
		WithExpiryDuration(time.Second),
	)
	assert.Equal(t, "rpc", cfg.Name)
	assert.Equal(t, 4, cfg.NumWorkers)
	assert.False(t, cfg.PreAlloc)
	assert.True(t, cfg.NonBlocking)
	assert.Equal(t, time.Second, cfg.ExpiryDuration)

	copied := cfg.Copy()
	assert.Equal(t, cfg, copied)
	assert.NotSame(t, cfg, copied)
	assert.Nil(t, (*Config)(nil).Copy())
}

func TestNewPool(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"nil config uses defaults", nil, false},
		{"valid", NewConfig(WithNumWorkers(2)), false},
		{"zero workers", &Config{Name: "bad"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPool(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, p.IsStarted())
			assert.False(t, p.IsClosed())
		})
	}
}

func TestPoolLifecycle(t *testing.T) {
	ctx := context.Background()
	p, err := NewPool(NewConfig(WithName("test"), WithNumWorkers(3)))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Cap())
	assert.Equal(t, 0, p.Running())

	assert.Error(t, p.Submit(ctx, func() {}), "submit before start")

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Start(ctx), "start is idempotent")
	assert.True(t, p.IsStarted())
	assert.Equal(t, 3, p.Cap())

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(ctx, func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(10), count.Load())

	// A panicking task must not take the pool down.
	wg.Add(1)
	require.NoError(t, p.Submit(ctx, func() {
		defer wg.Done()
		panic("boom")
	}))
	wg.Wait()

	require.NoError(t, p.Shutdown(ctx))
	require.NoError(t, p.Shutdown(ctx), "shutdown is idempotent")
	assert.True(t, p.IsClosed())
	assert.False(t, p.IsStarted())
	assert.Error(t, p.Submit(ctx, func() {}))
	assert.Error(t, p.Start(ctx))
}

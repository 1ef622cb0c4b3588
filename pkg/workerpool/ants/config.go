// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package ants

import (
	"runtime"
	"time"

	"github.com/brunoga/deep"
)

const defaultExpiryDuration = 10 * time.Second

var defaultNumWorkers = runtime.NumCPU()

// Config holds configuration options for creating an ants worker pool.
type Config struct {
	// Name identifies the pool in logs.
	Name string

	// NumWorkers is the number of worker goroutines.
	NumWorkers int

	// PreAlloc pre-allocates workers on pool creation.
	PreAlloc bool

	// NonBlocking makes Submit return immediately with an error if the pool is busy.
	NonBlocking bool

	// ExpiryDuration is the period for cleaning up idle workers.
	ExpiryDuration time.Duration
}

func (c *Config) Copy() *Config {
	if c == nil {
		return nil
	}
	return deep.MustCopy(c)
}

// ConfigOption is a functional option for configuring a worker pool.
type ConfigOption func(*Config)

func WithName(name string) ConfigOption {
	return func(c *Config) {
		c.Name = name
	}
}

func WithNumWorkers(n int) ConfigOption {
	return func(c *Config) {
		c.NumWorkers = n
	}
}

func WithPreAlloc(preAlloc bool) ConfigOption {
	return func(c *Config) {
		c.PreAlloc = preAlloc
	}
}

func WithNonBlocking(nonBlocking bool) ConfigOption {
	return func(c *Config) {
		c.NonBlocking = nonBlocking
	}
}

func WithExpiryDuration(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ExpiryDuration = d
	}
}

// NewConfig returns a Config with one worker per CPU, pre-allocated, then applies opts.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		Name:           "default",
		NumWorkers:     defaultNumWorkers,
		PreAlloc:       true,
		ExpiryDuration: defaultExpiryDuration,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

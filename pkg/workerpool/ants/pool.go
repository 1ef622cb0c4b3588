// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package ants

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	. "github.com/openblock/blockd/logging"
)

const shutdownTimeout = 30 * time.Second

// Pool runs submitted tasks on a bounded set of goroutines. It must be started before
// use and cannot be restarted after Shutdown.
type Pool struct {
	config *Config
	pool   *ants.Pool
	closed bool
	mutex  sync.RWMutex
}

func NewPool(cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if cfg.NumWorkers <= 0 {
		return nil, fmt.Errorf("worker pool %s needs at least one worker", cfg.Name)
	}
	return &Pool{config: cfg.Copy()}, nil
}

func (p *Pool) Start(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return fmt.Errorf("worker pool %s is closed", p.config.Name)
	}
	if p.pool != nil {
		return nil
	}

	name := p.config.Name
	pool, err := ants.NewPool(p.config.NumWorkers,
		ants.WithPreAlloc(p.config.PreAlloc),
		ants.WithNonblocking(p.config.NonBlocking),
		ants.WithExpiryDuration(p.config.ExpiryDuration),
		ants.WithPanicHandler(func(r interface{}) {
			Logc(ctx).WithFields(LogFields{"pool": name, "panic": r}).Error("Worker pool task panicked.")
		}),
	)
	if err != nil {
		return fmt.Errorf("could not create worker pool %s; %v", name, err)
	}
	p.pool = pool

	Logc(ctx).WithFields(LogFields{
		"pool":    name,
		"workers": p.config.NumWorkers,
	}).Debug("Worker pool started.")
	return nil
}

// Submit queues task. It blocks while all workers are busy unless the pool is non-blocking.
func (p *Pool) Submit(_ context.Context, task func()) error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.closed {
		return fmt.Errorf("worker pool %s is closed", p.config.Name)
	}
	if p.pool == nil {
		return fmt.Errorf("worker pool %s is not started", p.config.Name)
	}
	return p.pool.Submit(task)
}

// Shutdown waits for running tasks to finish, up to a timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.pool == nil {
		return nil
	}
	if err := p.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		Logc(ctx).WithField("pool", p.config.Name).WithError(err).Warning("Worker pool did not drain.")
		return err
	}
	return nil
}

func (p *Pool) Cap() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	if p.pool == nil {
		return p.config.NumWorkers
	}
	return p.pool.Cap()
}

func (p *Pool) Running() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	if p.pool == nil {
		return 0
	}
	return p.pool.Running()
}

func (p *Pool) IsStarted() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.pool != nil && !p.closed
}

func (p *Pool) IsClosed() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.closed
}

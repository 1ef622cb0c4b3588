// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"context"
	"sync"
	"time"
)

// SchedulerState is the startup barrier. Placement waits until every backend has reported
// capabilities or the startup deadline passes, whichever comes first.
type SchedulerState struct {
	mutex           sync.RWMutex
	ready           bool
	startupDeadline time.Time
	readyCh         chan struct{}
}

// NewSchedulerState returns a barrier that opens by itself once waitTime has elapsed
// after start. A zero waitTime opens it immediately.
func NewSchedulerState(start time.Time, waitTime time.Duration) *SchedulerState {
	s := &SchedulerState{
		startupDeadline: start.Add(waitTime),
		readyCh:         make(chan struct{}),
	}
	if waitTime <= 0 {
		s.MarkReady()
	}
	return s
}

func (s *SchedulerState) IsReady() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ready
}

func (s *SchedulerState) StartupDeadline() time.Time {
	return s.startupDeadline
}

// PastDeadline reports whether the barrier should no longer hold requests back.
func (s *SchedulerState) PastDeadline(now time.Time) bool {
	return !now.Before(s.startupDeadline)
}

// MarkReady opens the barrier. Later calls do nothing.
func (s *SchedulerState) MarkReady() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.ready {
		s.ready = true
		close(s.readyCh)
	}
}

// WaitReady blocks until the barrier opens, the startup deadline passes, or ctx ends.
func (s *SchedulerState) WaitReady(ctx context.Context) error {
	if s.IsReady() {
		return nil
	}
	timer := time.NewTimer(time.Until(s.startupDeadline))
	defer timer.Stop()

	select {
	case <-s.readyCh:
		return nil
	case <-timer.C:
		s.MarkReady()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

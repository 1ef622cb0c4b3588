// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package locks

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGCNamedMutex_Serializes(t *testing.T) {
	m := NewGCNamedMutex()
	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		counter sync.Mutex
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locked := m.LockWithGuard("node1@lvm")
			defer locked.Unlock()

			counter.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			counter.Unlock()

			time.Sleep(time.Millisecond)

			counter.Lock()
			active--
			counter.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, m.Len(), "released names are collected")
}

func TestGCNamedMutex_IndependentNames(t *testing.T) {
	m := NewGCNamedMutex()
	m.Lock("a")
	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock b was blocked by lock a")
	}
	assert.Equal(t, 1, m.Len())
	m.Unlock("a")
	assert.Equal(t, 0, m.Len())
}

func TestGCNamedMutex_TryLockAndGuard(t *testing.T) {
	m := NewGCNamedMutex()
	assert.True(t, m.TryLock("x"))
	assert.False(t, m.TryLock("x"))
	m.Unlock("x")
	assert.True(t, m.TryLock("x"))
	m.Unlock("x")

	// Unlocking a name that is not held is a no-op.
	m.Unlock("never")

	locked := m.LockWithGuard("y")
	assert.Equal(t, "y", locked.Name())
	locked.Unlock()
	locked.Unlock()
	assert.Equal(t, 0, m.Len())
}

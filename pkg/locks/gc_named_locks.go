// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package locks

import "sync"

// LockedResource holds one named lock until Unlock is called. Unlock is idempotent.
type LockedResource struct {
	name   string
	unlock func()
}

func (lr *LockedResource) Name() string {
	return lr.name
}

func (lr *LockedResource) Unlock() {
	if lr.unlock != nil {
		lr.unlock()
		lr.unlock = nil
	}
}

// GCNamedMutex hands out one mutex per name and forgets a name once nobody holds or
// waits for it, so the set of names may be unbounded.
type GCNamedMutex struct {
	mutex   sync.Mutex
	entries map[string]*namedEntry
}

type namedEntry struct {
	sync.Mutex
	// refs counts holders plus waiters.
	refs int
}

func NewGCNamedMutex() *GCNamedMutex {
	return &GCNamedMutex{entries: make(map[string]*namedEntry)}
}

func (g *GCNamedMutex) Lock(name string) {
	g.mutex.Lock()
	entry, ok := g.entries[name]
	if !ok {
		entry = &namedEntry{}
		g.entries[name] = entry
	}
	entry.refs++
	g.mutex.Unlock()

	entry.Lock()
}

// TryLock acquires the named lock only if nobody holds or waits for it.
func (g *GCNamedMutex) TryLock(name string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if _, ok := g.entries[name]; ok {
		return false
	}
	entry := &namedEntry{refs: 1}
	entry.Lock()
	g.entries[name] = entry
	return true
}

func (g *GCNamedMutex) Unlock(name string) {
	g.mutex.Lock()
	entry, ok := g.entries[name]
	if !ok {
		g.mutex.Unlock()
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(g.entries, name)
	}
	g.mutex.Unlock()

	entry.Unlock()
}

// LockWithGuard acquires the named lock; release it with the returned resource:
//
//	locked := mutex.LockWithGuard("node1@lvm")
//	defer locked.Unlock()
func (g *GCNamedMutex) LockWithGuard(name string) *LockedResource {
	g.Lock(name)
	return &LockedResource{
		name:   name,
		unlock: func() { g.Unlock(name) },
	}
}

// Len returns how many names are currently held or awaited.
func (g *GCNamedMutex) Len() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return len(g.entries)
}

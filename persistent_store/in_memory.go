// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brunoga/deep"

	"github.com/openblock/blockd/storage"
)

// table holds one kind of record. Records are copied on the way in and out, so callers
// never share memory with the store.
type table[T any] struct {
	records map[string]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{records: make(map[string]*T)}
}

func (t *table[T]) add(key string, record *T) error {
	if _, ok := t.records[key]; ok {
		return NewPersistentStoreError(KeyExistsErr, key)
	}
	t.records[key] = deep.MustCopy(record)
	return nil
}

func (t *table[T]) get(key string) (*T, error) {
	record, ok := t.records[key]
	if !ok {
		return nil, NewPersistentStoreError(KeyNotFoundErr, key)
	}
	return deep.MustCopy(record), nil
}

func (t *table[T]) list(match func(*T) bool) []*T {
	keys := make([]string, 0, len(t.records))
	for key := range t.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ret := make([]*T, 0, len(keys))
	for _, key := range keys {
		if match(t.records[key]) {
			ret = append(ret, deep.MustCopy(t.records[key]))
		}
	}
	return ret
}

func (t *table[T]) update(key string, record *T) error {
	if _, ok := t.records[key]; !ok {
		return NewPersistentStoreError(KeyNotFoundErr, key)
	}
	t.records[key] = deep.MustCopy(record)
	return nil
}

func (t *table[T]) conditionalUpdate(key string, expected func(*T) bool, apply func(*T)) (bool, error) {
	current, ok := t.records[key]
	if !ok {
		return false, NewPersistentStoreError(KeyNotFoundErr, key)
	}
	candidate := deep.MustCopy(current)
	if expected != nil && !expected(candidate) {
		return false, nil
	}
	apply(candidate)
	t.records[key] = candidate
	return true, nil
}

func (t *table[T]) delete(key string) error {
	if _, ok := t.records[key]; !ok {
		return NewPersistentStoreError(KeyNotFoundErr, key)
	}
	delete(t.records, key)
	return nil
}

type InMemoryClient struct {
	mutex     sync.RWMutex
	volumes   *table[storage.Volume]
	snapshots *table[storage.Snapshot]
	groups    *table[storage.Group]
	services  *table[storage.Service]
	clusters  *table[storage.Cluster]
	messages  *table[storage.Message]
}

func NewInMemoryClient() *InMemoryClient {
	c := &InMemoryClient{}
	c.reset()
	return c
}

func (c *InMemoryClient) reset() {
	c.volumes = newTable[storage.Volume]()
	c.snapshots = newTable[storage.Snapshot]()
	c.groups = newTable[storage.Group]()
	c.services = newTable[storage.Service]()
	c.clusters = newTable[storage.Cluster]()
	c.messages = newTable[storage.Message]()
}

func (c *InMemoryClient) GetType() StoreType {
	return MemoryStore
}

func (c *InMemoryClient) Stop() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.reset()
	return nil
}

func (c *InMemoryClient) AddVolume(_ context.Context, vol *storage.Volume) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.volumes.add(vol.ID, vol)
}

func (c *InMemoryClient) GetVolume(_ context.Context, id string) (*storage.Volume, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.volumes.get(id)
}

func (c *InMemoryClient) GetVolumes(_ context.Context, filter *VolumeFilter) ([]*storage.Volume, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.volumes.list(filter.Matches), nil
}

func (c *InMemoryClient) UpdateVolume(_ context.Context, vol *storage.Volume) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.volumes.update(vol.ID, vol)
}

func (c *InMemoryClient) ConditionalUpdateVolume(
	_ context.Context, id string, expected func(*storage.Volume) bool, apply func(*storage.Volume),
) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.volumes.conditionalUpdate(id, expected, apply)
}

func (c *InMemoryClient) DeleteVolume(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.volumes.delete(id)
}

func (c *InMemoryClient) AddSnapshot(_ context.Context, snapshot *storage.Snapshot) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshots.add(snapshot.ID, snapshot)
}

func (c *InMemoryClient) GetSnapshot(_ context.Context, id string) (*storage.Snapshot, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.snapshots.get(id)
}

func (c *InMemoryClient) GetSnapshots(_ context.Context, filter *SnapshotFilter) ([]*storage.Snapshot, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.snapshots.list(filter.Matches), nil
}

func (c *InMemoryClient) UpdateSnapshot(_ context.Context, snapshot *storage.Snapshot) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshots.update(snapshot.ID, snapshot)
}

func (c *InMemoryClient) DeleteSnapshot(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshots.delete(id)
}

func (c *InMemoryClient) AddGroup(_ context.Context, group *storage.Group) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.groups.add(group.ID, group)
}

func (c *InMemoryClient) GetGroup(_ context.Context, id string) (*storage.Group, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.groups.get(id)
}

func (c *InMemoryClient) GetGroups(_ context.Context, filter *GroupFilter) ([]*storage.Group, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.groups.list(filter.Matches), nil
}

func (c *InMemoryClient) UpdateGroup(_ context.Context, group *storage.Group) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.groups.update(group.ID, group)
}

func (c *InMemoryClient) AddService(_ context.Context, service *storage.Service) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.services.add(serviceKey(service.Host, service.Binary), service)
}

func (c *InMemoryClient) GetService(_ context.Context, host, binary string) (*storage.Service, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.services.get(serviceKey(host, binary))
}

func (c *InMemoryClient) GetServices(_ context.Context, filter *ServiceFilter) ([]*storage.Service, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.services.list(filter.Matches), nil
}

func (c *InMemoryClient) UpdateService(_ context.Context, service *storage.Service) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.services.update(serviceKey(service.Host, service.Binary), service)
}

func (c *InMemoryClient) ConditionalUpdateService(
	_ context.Context, host, binary string, expected func(*storage.Service) bool, apply func(*storage.Service),
) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.services.conditionalUpdate(serviceKey(host, binary), expected, apply)
}

func (c *InMemoryClient) AddCluster(_ context.Context, cluster *storage.Cluster) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.clusters.add(clusterKey(cluster.Name, cluster.Binary), cluster)
}

func (c *InMemoryClient) GetCluster(_ context.Context, name, binary string) (*storage.Cluster, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.clusters.get(clusterKey(name, binary))
}

func (c *InMemoryClient) GetClusters(_ context.Context, filter *ClusterFilter) ([]*storage.Cluster, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.clusters.list(filter.Matches), nil
}

func (c *InMemoryClient) UpdateCluster(_ context.Context, cluster *storage.Cluster) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.clusters.update(clusterKey(cluster.Name, cluster.Binary), cluster)
}

func (c *InMemoryClient) ConditionalUpdateCluster(
	_ context.Context, name, binary string, expected func(*storage.Cluster) bool, apply func(*storage.Cluster),
) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.clusters.conditionalUpdate(clusterKey(name, binary), expected, apply)
}

func (c *InMemoryClient) AddMessage(_ context.Context, message *storage.Message) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.messages.add(message.ID, message)
}

func (c *InMemoryClient) GetMessage(_ context.Context, id string) (*storage.Message, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.messages.get(id)
}

func (c *InMemoryClient) GetMessages(_ context.Context, filter *MessageFilter) ([]*storage.Message, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.messages.list(filter.Matches), nil
}

func (c *InMemoryClient) DeleteMessage(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.messages.delete(id)
}

func (c *InMemoryClient) DeleteExpiredMessages(_ context.Context, now time.Time) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	deleted := 0
	for id, message := range c.messages.records {
		if message.IsExpired(now) {
			delete(c.messages.records, id)
			deleted++
		}
	}
	return deleted, nil
}

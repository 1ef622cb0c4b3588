// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

//go:generate mockgen -destination=../mocks/mock_persistent_store/mock_client.go github.com/openblock/blockd/persistent_store Client

import (
	"context"
	"time"

	"github.com/openblock/blockd/storage"
)

type StoreType string

const (
	MemoryStore   StoreType = "memory"
	PostgresStore StoreType = "postgres"
)

// Client is the registry of every record blockd owns. Reads return copies, and the
// ConditionalUpdate methods check and write atomically: apply runs only if expected
// accepts the current record, and the result reports whether it ran.
type Client interface {
	GetType() StoreType
	Stop() error

	AddVolume(ctx context.Context, vol *storage.Volume) error
	GetVolume(ctx context.Context, id string) (*storage.Volume, error)
	GetVolumes(ctx context.Context, filter *VolumeFilter) ([]*storage.Volume, error)
	UpdateVolume(ctx context.Context, vol *storage.Volume) error
	ConditionalUpdateVolume(
		ctx context.Context, id string, expected func(*storage.Volume) bool, apply func(*storage.Volume),
	) (bool, error)
	DeleteVolume(ctx context.Context, id string) error

	AddSnapshot(ctx context.Context, snapshot *storage.Snapshot) error
	GetSnapshot(ctx context.Context, id string) (*storage.Snapshot, error)
	GetSnapshots(ctx context.Context, filter *SnapshotFilter) ([]*storage.Snapshot, error)
	UpdateSnapshot(ctx context.Context, snapshot *storage.Snapshot) error
	DeleteSnapshot(ctx context.Context, id string) error

	AddGroup(ctx context.Context, group *storage.Group) error
	GetGroup(ctx context.Context, id string) (*storage.Group, error)
	GetGroups(ctx context.Context, filter *GroupFilter) ([]*storage.Group, error)
	UpdateGroup(ctx context.Context, group *storage.Group) error

	AddService(ctx context.Context, service *storage.Service) error
	GetService(ctx context.Context, host, binary string) (*storage.Service, error)
	GetServices(ctx context.Context, filter *ServiceFilter) ([]*storage.Service, error)
	UpdateService(ctx context.Context, service *storage.Service) error
	ConditionalUpdateService(
		ctx context.Context, host, binary string, expected func(*storage.Service) bool, apply func(*storage.Service),
	) (bool, error)

	AddCluster(ctx context.Context, cluster *storage.Cluster) error
	GetCluster(ctx context.Context, name, binary string) (*storage.Cluster, error)
	GetClusters(ctx context.Context, filter *ClusterFilter) ([]*storage.Cluster, error)
	UpdateCluster(ctx context.Context, cluster *storage.Cluster) error
	ConditionalUpdateCluster(
		ctx context.Context, name, binary string, expected func(*storage.Cluster) bool, apply func(*storage.Cluster),
	) (bool, error)

	AddMessage(ctx context.Context, message *storage.Message) error
	GetMessage(ctx context.Context, id string) (*storage.Message, error)
	GetMessages(ctx context.Context, filter *MessageFilter) ([]*storage.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	DeleteExpiredMessages(ctx context.Context, now time.Time) (int, error)
}

const (
	volumeKind   = "volume"
	snapshotKind = "snapshot"
	groupKind    = "group"
	serviceKind  = "service"
	clusterKind  = "cluster"
	messageKind  = "message"
)

// Services and clusters are unique per binary.
func serviceKey(host, binary string) string {
	return binary + ":" + host
}

func clusterKey(name, binary string) string {
	return binary + ":" + name
}

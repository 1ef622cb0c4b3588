// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

//go:generate mockgen -destination=../mocks/mock_core/mock_core.go github.com/openblock/blockd/core Orchestrator

import (
	"context"

	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/storage"
)

// Orchestrator is the admin surface of blockd. Mutations are accepted synchronously and
// carried out by the scheduler and volume managers; callers watch the records for the
// outcome.
type Orchestrator interface {
	Bootstrap(ctx context.Context) error
	Stop(ctx context.Context) error
	GetVersion(ctx context.Context) (string, error)

	// Failover fails over, or back when secondaryID is the failback target, exactly one of
	// a standalone volume service (host) or a cluster.
	Failover(ctx context.Context, host, cluster, secondaryID string) error
	Freeze(ctx context.Context, host, cluster string) error
	Thaw(ctx context.Context, host, cluster string) error

	CreateVolume(ctx context.Context, request *VolumeCreateRequest) (*storage.Volume, error)
	GetVolume(ctx context.Context, id string) (*storage.Volume, error)
	ListVolumes(ctx context.Context, filter *persistentstore.VolumeFilter) ([]*storage.Volume, error)
	DeleteVolume(ctx context.Context, id string) error
	ExtendVolume(ctx context.Context, id string, newSizeGiB int) error
	MigrateVolume(ctx context.Context, id, destHost string) error
	RetypeVolume(ctx context.Context, id string, newType *storage.VolumeType) error

	CreateSnapshot(ctx context.Context, volumeID, name string) (*storage.Snapshot, error)
	ListSnapshots(ctx context.Context, volumeID string) ([]*storage.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error

	ListGroups(ctx context.Context) ([]*storage.Group, error)
	ListServices(ctx context.Context, filter *persistentstore.ServiceFilter) ([]*storage.Service, error)
	GetService(ctx context.Context, host string) (*storage.Service, error)
	ListClusters(ctx context.Context) ([]*storage.Cluster, error)

	ListMessages(ctx context.Context, filter *persistentstore.MessageFilter) ([]*storage.Message, error)
	GetMessage(ctx context.Context, id string) (*storage.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error)
	GetManageableVolumes(
		ctx context.Context, host string, opts *storage.ManageableListOptions,
	) ([]*storage.ManageableVolume, error)
	GetManageableSnapshots(
		ctx context.Context, host string, opts *storage.ManageableListOptions,
	) ([]*storage.ManageableSnapshot, error)
}

// VolumeCreateRequest is what a caller supplies for a new volume. The scheduler picks
// the backend.
type VolumeCreateRequest struct {
	Name             string              `json:"name"`
	Size             int                 `json:"size"`
	AvailabilityZone string              `json:"availabilityZone,omitempty"`
	VolumeType       *storage.VolumeType `json:"volumeType,omitempty"`
	GroupID          string              `json:"groupID,omitempty"`
}

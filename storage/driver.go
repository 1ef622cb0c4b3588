// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

//go:generate mockgen -destination=../mocks/mock_storage/mock_driver.go github.com/openblock/blockd/storage Driver

import (
	"context"

	"github.com/openblock/blockd/config"
)

// Driver is the contract every storage vendor implements. The volume manager is the only
// caller, and it never calls one driver concurrently.
type Driver interface {
	Name() string
	Initialize(ctx context.Context, backend *config.BackendConfig) error
	Initialized() bool
	// Terminate tells the driver to clean up, as it won't be called again.
	Terminate(ctx context.Context)
	GetCapabilities(ctx context.Context) (*Capabilities, error)

	// CreateVolume provisions the volume in the pool named by its host and may return
	// changes to persist, such as replication driver data.
	CreateVolume(ctx context.Context, volume *Volume) (*VolumeFields, error)
	DeleteVolume(ctx context.Context, volume *Volume) error
	ExtendVolume(ctx context.Context, volume *Volume, newSizeGiB int) error
	CreateSnapshot(ctx context.Context, snapshot *Snapshot, volume *Volume) error
	DeleteSnapshot(ctx context.Context, snapshot *Snapshot) error

	// FailoverHost promotes secondaryID, or returns to the primary when secondaryID is
	// the failback target. The inputs are copies and must not be modified; every change
	// is reported in the result. A bad target yields an InvalidReplicationTarget error.
	// Retrying after a failover error must be safe.
	FailoverHost(ctx context.Context, volumes []*Volume, secondaryID string, groups []*Group) (*FailoverResult, error)
	// FailoverCompleted is invoked on every member of an active/active cluster once the
	// cluster has failed over to activeBackendID.
	FailoverCompleted(ctx context.Context, activeBackendID string) error
	Freeze(ctx context.Context) error
	Thaw(ctx context.Context) error

	GetManageableVolumes(
		ctx context.Context, existing []*Volume, opts *ManageableListOptions,
	) ([]*ManageableVolume, error)
	GetManageableSnapshots(
		ctx context.Context, existing []*Snapshot, opts *ManageableListOptions,
	) ([]*ManageableSnapshot, error)
}

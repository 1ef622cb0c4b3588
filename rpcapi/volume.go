// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpcapi

import (
	"context"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/storage"
)

// VolumeAPI is the client side of the volume manager API. Mutations are casts; only
// queries wait for a reply.
type VolumeAPI struct {
	client *rpc.Client
}

func NewVolumeAPI(transport *rpc.Transport) (*VolumeAPI, error) {
	client, err := rpc.NewClient(transport, config.VolumeTopic, config.VolumeRPCAPIVersion)
	if err != nil {
		return nil, err
	}
	return &VolumeAPI{client: client}, nil
}

// Negotiate pins the API to the oldest version any volume service speaks.
func (a *VolumeAPI) Negotiate(ctx context.Context) string {
	return a.client.Negotiate(ctx)
}

func (a *VolumeAPI) CanSendVersion(v string) bool {
	return a.client.CanSendVersion(v)
}

// forVolume addresses the volume's cluster when it has one, else its backend.
func (a *VolumeAPI) forVolume(v *storage.Volume, version string) *rpc.CallContext {
	if v.ClusterName != "" {
		return a.client.Prepare("", v.ClusterName, version)
	}
	return a.client.Prepare(v.BackendHost(), "", version)
}

func (a *VolumeAPI) forService(s *storage.Service, version string) *rpc.CallContext {
	return a.client.Prepare(s.Host, "", version)
}

func (a *VolumeAPI) CreateVolume(
	ctx context.Context, volume *storage.Volume, spec *storage.RequestSpec, props *storage.FilterProperties,
) error {
	return a.forVolume(volume, "").Cast(ctx, MethodCreateVolume, &CreateVolumeArgs{
		VolumeID:         volume.ID,
		RequestSpec:      spec,
		FilterProperties: props,
	})
}

func (a *VolumeAPI) DeleteVolume(ctx context.Context, volume *storage.Volume) error {
	return a.forVolume(volume, "").Cast(ctx, MethodDeleteVolume, &VolumeArgs{VolumeID: volume.ID})
}

func (a *VolumeAPI) ExtendVolume(ctx context.Context, volume *storage.Volume, newSize int) error {
	return a.forVolume(volume, "").Cast(ctx, MethodExtendVolume, &ExtendVolumeArgs{
		VolumeID: volume.ID,
		NewSize:  newSize,
	})
}

// MigrateVolume asks the volume's current backend to move it to destHost.
func (a *VolumeAPI) MigrateVolume(ctx context.Context, volume *storage.Volume, destHost string) error {
	return a.forVolume(volume, "").Cast(ctx, MethodMigrateVolume, &MigrateVolumeArgs{
		VolumeID: volume.ID,
		DestHost: destHost,
	})
}

// AcceptMigration has the backend serving destHost create its copy of volume and returns
// the fields the destination wants persisted.
func (a *VolumeAPI) AcceptMigration(
	ctx context.Context, volume *storage.Volume, destHost string,
) (*storage.VolumeFields, error) {
	fields := &storage.VolumeFields{}
	backend := storage.ExtractHost(destHost, storage.HostLevelBackend, false)
	if err := a.client.Prepare(backend, "", "").Call(ctx, MethodAcceptMigration, &AcceptMigrationArgs{
		Volume:   volume,
		DestHost: destHost,
	}, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (a *VolumeAPI) RetypeVolume(ctx context.Context, volume *storage.Volume, newType *storage.VolumeType) error {
	return a.forVolume(volume, "").Cast(ctx, MethodRetypeVolume, &RetypeVolumeArgs{
		VolumeID: volume.ID,
		NewType:  newType,
	})
}

func (a *VolumeAPI) CreateSnapshot(ctx context.Context, volume *storage.Volume, snapshot *storage.Snapshot) error {
	return a.forVolume(volume, "").Cast(ctx, MethodCreateSnapshot, &SnapshotArgs{
		VolumeID:   volume.ID,
		SnapshotID: snapshot.ID,
	})
}

func (a *VolumeAPI) DeleteSnapshot(ctx context.Context, volume *storage.Volume, snapshot *storage.Snapshot) error {
	return a.forVolume(volume, "").Cast(ctx, MethodDeleteSnapshot, &SnapshotArgs{
		VolumeID:   volume.ID,
		SnapshotID: snapshot.ID,
	})
}

// FailoverHost fails over a standalone volume service.
func (a *VolumeAPI) FailoverHost(ctx context.Context, service *storage.Service, secondaryID string) error {
	return a.forService(service, "").Cast(ctx, MethodFailoverHost, &FailoverArgs{
		SecondaryBackendID: secondaryID,
	})
}

// Failover fails over a clustered volume service. One member of the cluster runs it and
// then tells the others.
func (a *VolumeAPI) Failover(ctx context.Context, service *storage.Service, secondaryID string) error {
	cc := a.client.Prepare("", service.ClusterName, config.ClusterFailoverRPCVersion)
	if service.ClusterName == "" {
		cc = a.forService(service, config.ClusterFailoverRPCVersion)
	}
	return cc.Cast(ctx, MethodFailover, &FailoverArgs{SecondaryBackendID: secondaryID})
}

func (a *VolumeAPI) FailoverCompleted(
	ctx context.Context, service *storage.Service, state storage.ReplicationState,
) error {
	return a.forService(service, config.ClusterFailoverRPCVersion).Cast(ctx, MethodFailoverCompleted,
		&FailoverCompletedArgs{State: state})
}

func (a *VolumeAPI) FreezeHost(ctx context.Context, service *storage.Service) error {
	return a.forService(service, "").Cast(ctx, MethodFreezeHost, nil)
}

// ThawHost waits for the backend to thaw and reports whether it did.
func (a *VolumeAPI) ThawHost(ctx context.Context, service *storage.Service) (bool, error) {
	var thawed bool
	err := a.forService(service, "").Call(ctx, MethodThawHost, nil, &thawed)
	return thawed, err
}

func (a *VolumeAPI) GetCapabilities(ctx context.Context, service *storage.Service) (*storage.Capabilities, error) {
	caps := &storage.Capabilities{}
	if err := a.forService(service, "").Call(ctx, MethodGetCapabilities, nil, caps); err != nil {
		return nil, err
	}
	return caps, nil
}

func (a *VolumeAPI) GetManageableVolumes(
	ctx context.Context, service *storage.Service, opts *storage.ManageableListOptions,
) ([]*storage.ManageableVolume, error) {
	volumes := make([]*storage.ManageableVolume, 0)
	if err := a.forService(service, "").Call(ctx, MethodGetManageableVolumes, &ManageableArgs{Options: opts},
		&volumes); err != nil {
		return nil, err
	}
	return volumes, nil
}

func (a *VolumeAPI) GetManageableSnapshots(
	ctx context.Context, service *storage.Service, opts *storage.ManageableListOptions,
) ([]*storage.ManageableSnapshot, error) {
	snapshots := make([]*storage.ManageableSnapshot, 0)
	if err := a.forService(service, "").Call(ctx, MethodGetManageableSnapshots, &ManageableArgs{Options: opts},
		&snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// PublishServiceCapabilities asks every volume service to report its capabilities now.
func (a *VolumeAPI) PublishServiceCapabilities(ctx context.Context) error {
	return a.client.Fanout(ctx, MethodPublishServiceCapabilities, nil)
}

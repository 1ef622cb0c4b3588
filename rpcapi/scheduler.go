// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpcapi

import (
	"context"
	"time"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/storage"
)

// SchedulerAPI is the client side of the scheduler API. Any scheduler may serve a request.
type SchedulerAPI struct {
	client *rpc.Client
}

func NewSchedulerAPI(transport *rpc.Transport) (*SchedulerAPI, error) {
	client, err := rpc.NewClient(transport, config.SchedulerTopic, config.SchedulerRPCAPIVersion)
	if err != nil {
		return nil, err
	}
	return &SchedulerAPI{client: client}, nil
}

func (a *SchedulerAPI) Negotiate(ctx context.Context) string {
	return a.client.Negotiate(ctx)
}

func (a *SchedulerAPI) anyScheduler() *rpc.CallContext {
	return a.client.Prepare("", "", "")
}

func (a *SchedulerAPI) CreateVolume(
	ctx context.Context, spec *storage.RequestSpec, props *storage.FilterProperties,
) error {
	return a.anyScheduler().Cast(ctx, MethodCreateVolume, &CreateVolumeArgs{
		VolumeID:         spec.VolumeID,
		RequestSpec:      spec,
		FilterProperties: props,
	})
}

func (a *SchedulerAPI) ExtendVolume(
	ctx context.Context, volume *storage.Volume, newSize int, spec *storage.RequestSpec,
) error {
	return a.anyScheduler().Cast(ctx, MethodExtendVolume, &ExtendVolumeArgs{
		VolumeID:    volume.ID,
		NewSize:     newSize,
		RequestSpec: spec,
	})
}

func (a *SchedulerAPI) MigrateVolume(
	ctx context.Context, volume *storage.Volume, destHost string, spec *storage.RequestSpec,
) error {
	return a.anyScheduler().Cast(ctx, MethodMigrateVolume, &MigrateVolumeArgs{
		VolumeID:    volume.ID,
		DestHost:    destHost,
		RequestSpec: spec,
	})
}

func (a *SchedulerAPI) RetypeVolume(
	ctx context.Context, volume *storage.Volume, newType *storage.VolumeType, spec *storage.RequestSpec,
) error {
	return a.anyScheduler().Cast(ctx, MethodRetypeVolume, &RetypeVolumeArgs{
		VolumeID:    volume.ID,
		NewType:     newType,
		RequestSpec: spec,
	})
}

// UpdateServiceCapabilities sends a capability report to every scheduler.
func (a *SchedulerAPI) UpdateServiceCapabilities(
	ctx context.Context, service *storage.Service, caps *storage.Capabilities,
) error {
	return a.client.Fanout(ctx, MethodUpdateServiceCapabilities, newReport(service, caps))
}

// NotifyServiceCapabilities asks one scheduler to publish usage for a backend whose
// capabilities changed.
func (a *SchedulerAPI) NotifyServiceCapabilities(
	ctx context.Context, service *storage.Service, caps *storage.Capabilities,
) error {
	return a.anyScheduler().Cast(ctx, MethodNotifyServiceCapabilities, newReport(service, caps))
}

func (a *SchedulerAPI) GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error) {
	pools := make([]*storage.PoolInfo, 0)
	if err := a.anyScheduler().Call(ctx, MethodGetPools, &GetPoolsArgs{Backend: backend}, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func newReport(service *storage.Service, caps *storage.Capabilities) *CapabilitiesReport {
	return &CapabilitiesReport{
		ServiceName:  service.Binary,
		Host:         service.Host,
		ClusterName:  service.ClusterName,
		Capabilities: caps,
		Timestamp:    time.Now().UTC(),
	}
}

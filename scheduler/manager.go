// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

// Package scheduler places volumes onto backend pools. Volume managers report their
// capabilities here; the manager filters and weighs the reported pools for every
// placement request and forwards the request to the chosen backend.
package scheduler

import (
	"context"
	"time"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/message"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// Manager serves the scheduler RPC API.
type Manager struct {
	host        string
	state       *SchedulerState
	driver      Driver
	hostManager *HostManager
	store       persistentstore.Client
	messages    *message.API
	volumeAPI   *rpcapi.VolumeAPI
	opts        config.SchedulerOptions
}

// NewManager builds a scheduler with the filter scheduler as its placement policy. The
// startup barrier starts counting now.
func NewManager(
	host string, store persistentstore.Client, messages *message.API, volumeAPI *rpcapi.VolumeAPI,
	opts *config.Options,
) (*Manager, error) {
	hostManager := NewHostManager(store, opts.Service.ServiceDownTime)
	driver, err := NewFilterScheduler(hostManager, &opts.Scheduler)
	if err != nil {
		return nil, err
	}
	return &Manager{
		host:        host,
		state:       NewSchedulerState(time.Now(), opts.Scheduler.DriverInitWaitTime),
		driver:      driver,
		hostManager: hostManager,
		store:       store,
		messages:    messages,
		volumeAPI:   volumeAPI,
		opts:        opts.Scheduler,
	}, nil
}

func (m *Manager) Host() string {
	return m.host
}

func (m *Manager) IsReady() bool {
	return m.state.IsReady()
}

// IsFirstReceive reports whether every active volume service has reported capabilities.
func (m *Manager) IsFirstReceive(ctx context.Context) bool {
	ok, err := m.hostManager.FirstReceiveCapabilities(ctx)
	if err != nil {
		Logc(ctx).WithError(err).Warning("Could not check capability reports.")
		return false
	}
	return ok
}

// Register serves the scheduler API on transport. Handlers may block on the startup
// barrier, so they run concurrently rather than behind the per-server lock.
func (m *Manager) Register(ctx context.Context, transport *rpc.Transport) error {
	return transport.Register(ctx, rpc.Target{Topic: config.SchedulerTopic, Server: m.host},
		config.SchedulerRPCAPIVersion, m.Endpoint(), rpc.WithConcurrentDispatch())
}

func (m *Manager) Endpoint() rpc.Endpoint {
	return rpc.Endpoint{
		rpcapi.MethodCreateVolume:              rpc.HandleCast(m.createVolume),
		rpcapi.MethodExtendVolume:              rpc.HandleCast(m.extendVolume),
		rpcapi.MethodMigrateVolume:             rpc.HandleCast(m.migrateVolume),
		rpcapi.MethodRetypeVolume:              rpc.HandleCast(m.retypeVolume),
		rpcapi.MethodUpdateServiceCapabilities: rpc.HandleCast(m.updateServiceCapabilities),
		rpcapi.MethodNotifyServiceCapabilities: rpc.HandleCast(m.notifyServiceCapabilities),
		rpcapi.MethodGetPools:                  rpc.Handle(m.getPools),
	}
}

// InitHostWithRPC asks every volume service for capabilities, then polls until all of
// them have reported or the startup deadline passes, and opens the barrier.
func (m *Manager) InitHostWithRPC(ctx context.Context) {
	if err := m.volumeAPI.PublishServiceCapabilities(ctx); err != nil {
		Logc(ctx).WithError(err).Warning("Could not request capabilities from volume services.")
	}

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for !m.state.IsReady() {
		if m.IsFirstReceive(ctx) {
			Logc(ctx).Info("All volume services reported capabilities.")
			break
		}
		if m.state.PastDeadline(time.Now()) {
			Logc(ctx).WithField("missing", m.hostManager.BackendsWithoutCapabilities()).
				Warning("Startup wait elapsed before all volume services reported capabilities.")
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
	m.state.MarkReady()
}

func (m *Manager) waitReady(ctx context.Context) error {
	if err := m.state.WaitReady(ctx); err != nil {
		return errors.TimeoutError("scheduler was not ready; %v", err)
	}
	return nil
}

// updateVolume applies fn to the current record of a volume.
func (m *Manager) updateVolume(ctx context.Context, id string, fn func(*storage.Volume)) {
	if _, err := m.store.ConditionalUpdateVolume(ctx, id, func(*storage.Volume) bool { return true }, fn); err != nil {
		Logc(ctx).WithField("volume", id).WithError(err).Error("Could not update volume after scheduling.")
	}
}

func (m *Manager) recordFailure(ctx context.Context, volumeID string, action storage.MessageAction, err error) {
	_, _ = m.messages.CreateFromError(ctx, storage.ResourceTypeVolume, volumeID, action, err)
}

func (m *Manager) createVolume(ctx context.Context, args *rpcapi.CreateVolumeArgs) (err error) {
	defer func() { scheduleOperationsTotal.WithLabelValues("create_volume", scheduleResult(err)).Inc() }()

	if args.RequestSpec == nil {
		return errors.InvalidInputError("create_volume for %s carries no request spec", args.VolumeID)
	}
	spec := args.RequestSpec
	props := args.FilterProperties
	if props == nil {
		props = &storage.FilterProperties{}
	}
	logFields := LogFields{"volume": args.VolumeID}

	if err = m.waitReady(ctx); err != nil {
		return err
	}

	chosen, err := m.driver.ScheduleCreateVolume(ctx, spec, props)
	if err != nil {
		Logc(ctx).WithFields(logFields).WithError(err).Error("Failed to schedule volume.")
		m.updateVolume(ctx, args.VolumeID, func(v *storage.Volume) {
			v.Status = storage.VolumeStatusError
		})
		m.recordFailure(ctx, args.VolumeID, storage.ActionScheduleAllocateVolume, err)
		return err
	}

	var volume *storage.Volume
	m.updateVolume(ctx, args.VolumeID, func(v *storage.Volume) {
		v.Host = chosen.Pool.Host
		v.ClusterName = chosen.Pool.ClusterName
		if v.AvailabilityZone == "" {
			v.AvailabilityZone = chosen.Pool.AvailabilityZone
		}
		volume = v.SmartCopy()
	})
	if volume == nil {
		return errors.NotFoundError("volume %s disappeared while it was scheduled", args.VolumeID)
	}

	Logc(ctx).WithFields(logFields).WithField("host", volume.Host).Info("Scheduled volume.")
	return m.volumeAPI.CreateVolume(ctx, volume, spec, props)
}

// validateBackend checks a volume's placement and rolls the volume back when it fails.
func (m *Manager) validateBackend(
	ctx context.Context, operation, volumeID, backend string, spec *storage.RequestSpec,
	action storage.MessageAction, rollback func(*storage.Volume),
) (pool *PoolState, err error) {
	defer func() { scheduleOperationsTotal.WithLabelValues(operation, scheduleResult(err)).Inc() }()

	if spec == nil {
		spec = &storage.RequestSpec{VolumeID: volumeID}
	}
	if err = m.waitReady(ctx); err != nil {
		return nil, err
	}
	pool, err = m.driver.BackendPassesFilters(ctx, backend, spec, nil)
	if err != nil {
		Logc(ctx).WithFields(LogFields{
			"volume":    volumeID,
			"backend":   backend,
			"operation": operation,
		}).WithError(err).Error("Backend cannot take the request.")
		m.updateVolume(ctx, volumeID, rollback)
		m.recordFailure(ctx, volumeID, action, err)
		return nil, err
	}
	return pool, nil
}

func (m *Manager) extendVolume(ctx context.Context, args *rpcapi.ExtendVolumeArgs) error {
	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return err
	}
	spec := args.RequestSpec
	if spec == nil {
		spec = storage.NewRequestSpecForVolume(volume)
	}
	if spec.ExtendBy == 0 {
		spec.ExtendBy = args.NewSize - volume.Size
	}

	_, err = m.validateBackend(ctx, "extend_volume", volume.ID, volume.Host, spec, storage.ActionExtendVolume,
		func(v *storage.Volume) { v.RestoreStatus(storage.VolumeStatusAvailable) })
	if err != nil {
		return err
	}
	return m.volumeAPI.ExtendVolume(ctx, volume, args.NewSize)
}

func (m *Manager) migrateVolume(ctx context.Context, args *rpcapi.MigrateVolumeArgs) error {
	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return err
	}
	spec := args.RequestSpec
	if spec == nil {
		spec = storage.NewRequestSpecForVolume(volume)
	}
	spec.SourceHost = volume.Host

	pool, err := m.validateBackend(ctx, "migrate_volume", volume.ID, args.DestHost, spec, storage.ActionMigrateVolume,
		func(v *storage.Volume) {
			v.MigrationStatus = storage.MigrationStatusError
			if v.Status == storage.VolumeStatusMaintenance {
				v.RestoreStatus(storage.VolumeStatusAvailable)
			}
		})
	if err != nil {
		return err
	}
	return m.volumeAPI.MigrateVolume(ctx, volume, pool.Host)
}

func (m *Manager) retypeVolume(ctx context.Context, args *rpcapi.RetypeVolumeArgs) error {
	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return err
	}
	spec := args.RequestSpec
	if spec == nil {
		spec = storage.NewRequestSpecForVolume(volume)
		spec.VolumeType = args.NewType
	}
	// The volume already occupies its pool.
	spec.Size = 0

	_, err = m.validateBackend(ctx, "retype", volume.ID, volume.Host, spec, storage.ActionRetypeVolume,
		func(v *storage.Volume) { v.RestoreStatus(storage.VolumeStatusAvailable) })
	if err != nil {
		return err
	}
	return m.volumeAPI.RetypeVolume(ctx, volume, args.NewType)
}

func (m *Manager) updateServiceCapabilities(ctx context.Context, report *rpcapi.CapabilitiesReport) error {
	if m.hostManager.UpdateServiceCapabilities(ctx, report) {
		recordPoolCapacity(report)
	}
	backendsWithoutCapabilitiesGauge.Set(float64(len(m.hostManager.BackendsWithoutCapabilities())))
	return nil
}

func (m *Manager) notifyServiceCapabilities(ctx context.Context, report *rpcapi.CapabilitiesReport) error {
	Logc(ctx).WithField("host", report.Host).Debug("Backend capabilities changed.")
	recordPoolCapacity(report)
	return nil
}

func recordPoolCapacity(report *rpcapi.CapabilitiesReport) {
	if report == nil || report.Capabilities == nil {
		return
	}
	for _, pool := range report.Capabilities.Pools {
		poolFreeCapacityGauge.WithLabelValues(report.Host, pool.PoolName).Set(pool.FreeCapacityGB)
		poolTotalCapacityGauge.WithLabelValues(report.Host, pool.PoolName).Set(pool.TotalCapacityGB)
	}
}

func (m *Manager) getPools(ctx context.Context, args *rpcapi.GetPoolsArgs) ([]*storage.PoolInfo, error) {
	return m.driver.GetPools(ctx, args.Backend)
}

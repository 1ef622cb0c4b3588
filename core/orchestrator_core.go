// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/message"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/scheduler"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/storage/factory"
	"github.com/openblock/blockd/utils/errors"
)

// BlockOrchestrator runs the scheduler and one volume manager per configured backend on a
// shared RPC transport, and serves the admin API on top of them.
type BlockOrchestrator struct {
	opts         *config.Options
	store        persistentstore.Client
	transport    *rpc.Transport
	volumeAPI    *rpcapi.VolumeAPI
	schedulerAPI *rpcapi.SchedulerAPI
	messages     *message.API
	scheduler    *scheduler.Manager

	// newDriver builds the driver of a backend; replaced in tests.
	newDriver func(ctx context.Context, backend *config.BackendConfig) (storage.Driver, error)

	mutex          sync.RWMutex
	managers       map[string]*VolumeManager
	bootstrapError error

	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBlockOrchestrator returns an orchestrator that must be bootstrapped before use.
func NewBlockOrchestrator(opts *config.Options, store persistentstore.Client) (*BlockOrchestrator, error) {
	transport, err := rpc.NewTransport(opts.RPC)
	if err != nil {
		return nil, err
	}
	volumeAPI, err := rpcapi.NewVolumeAPI(transport)
	if err != nil {
		return nil, err
	}
	schedulerAPI, err := rpcapi.NewSchedulerAPI(transport)
	if err != nil {
		return nil, err
	}

	messages := message.NewAPI(store, opts.Messages.TTL)
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	schedulerManager, err := scheduler.NewManager(hostname, store, messages, volumeAPI, opts)
	if err != nil {
		return nil, err
	}

	return &BlockOrchestrator{
		opts:           opts,
		store:          store,
		transport:      transport,
		volumeAPI:      volumeAPI,
		schedulerAPI:   schedulerAPI,
		messages:       messages,
		scheduler:      schedulerManager,
		newDriver:      factory.NewDriverForConfig,
		managers:       make(map[string]*VolumeManager),
		bootstrapError: errors.NotReadyError(),
	}, nil
}

func (o *BlockOrchestrator) ready() error {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.bootstrapError
}

func (o *BlockOrchestrator) Bootstrap(ctx context.Context) error {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowCoreBootstrap, LogLayerCore)

	if err := o.bootstrap(ctx); err != nil {
		o.mutex.Lock()
		o.bootstrapError = errors.BootstrapError(err)
		o.mutex.Unlock()
		Logc(ctx).WithError(err).Error("Bootstrap failed.")
		return o.bootstrapError
	}

	o.mutex.Lock()
	o.bootstrapError = nil
	o.mutex.Unlock()

	buildInfo.WithLabelValues(config.BuildHash, config.OrchestratorVersion.String(), config.BuildType).Set(1)
	Logc(ctx).WithField("backends", len(o.opts.Backends)).Infof("%s bootstrapped successfully.",
		config.OrchestratorName)
	return nil
}

func (o *BlockOrchestrator) bootstrap(ctx context.Context) error {
	if err := o.transport.Start(ctx); err != nil {
		return err
	}
	if err := o.scheduler.Register(ctx, o.transport); err != nil {
		return err
	}

	managers := make([]*VolumeManager, len(o.opts.Backends))
	g, gctx := errgroup.WithContext(ctx)
	for i := range o.opts.Backends {
		backend := &o.opts.Backends[i]
		g.Go(func() error {
			manager, err := o.startVolumeManager(gctx, backend)
			if err != nil {
				return errors.WrapWithVolumeDriverError(err, "backend %s failed to start", backend.Name)
			}
			managers[i] = manager
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	o.mutex.Lock()
	for _, m := range managers {
		o.managers[m.Host()] = m
	}
	o.mutex.Unlock()

	Logc(ctx).WithFields(LogFields{
		"volumeAPI":    o.volumeAPI.Negotiate(ctx),
		"schedulerAPI": o.schedulerAPI.Negotiate(ctx),
	}).Info("Negotiated RPC versions.")

	loopCtx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.scheduler.InitHostWithRPC(GenerateRequestContext(loopCtx, "", ContextSourceInternal,
			WorkflowSchedulerSchedule, LogLayerScheduler))
	}()
	o.periodically(loopCtx, o.opts.Service.ReportInterval, WorkflowServiceReport, o.reportCapabilities)
	o.periodically(loopCtx, o.opts.Messages.ReapInterval, WorkflowMessageCleanup, o.reapMessages)
	return nil
}

func (o *BlockOrchestrator) startVolumeManager(ctx context.Context, backend *config.BackendConfig) (*VolumeManager, error) {
	driver, err := o.newDriver(ctx, backend)
	if err != nil {
		return nil, err
	}
	manager := NewVolumeManager(backend, driver, o.store, o.messages, o.volumeAPI, o.schedulerAPI, o.opts.Service)
	if err = manager.Init(ctx); err != nil {
		return nil, err
	}
	if err = manager.Register(ctx, o.transport); err != nil {
		return nil, err
	}
	return manager, nil
}

// periodically runs fn every interval until ctx is cancelled. A zero interval disables it.
func (o *BlockOrchestrator) periodically(
	ctx context.Context, interval time.Duration, workflow Workflow, fn func(context.Context) error,
) {
	if interval <= 0 {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx := GenerateRequestContext(ctx, "", ContextSourcePeriodic, workflow, LogLayerCore)
				if err := fn(runCtx); err != nil {
					Logc(runCtx).WithError(err).Warning("Periodic task failed.")
				}
			}
		}
	}()
}

func (o *BlockOrchestrator) reportCapabilities(ctx context.Context) error {
	if err := o.volumeAPI.PublishServiceCapabilities(ctx); err != nil {
		return err
	}
	return o.updateMetrics(ctx)
}

func (o *BlockOrchestrator) reapMessages(ctx context.Context) error {
	_, err := o.messages.CleanupExpired(ctx)
	return err
}

func (o *BlockOrchestrator) updateMetrics(ctx context.Context) error {
	services, err := o.store.GetServices(ctx, &persistentstore.ServiceFilter{Binary: config.VolumeBinary})
	if err != nil {
		return err
	}
	servicesGauge.Reset()
	for _, s := range services {
		disabled := "false"
		if s.Disabled {
			disabled = "true"
		}
		servicesGauge.WithLabelValues(s.ReplicationStatus.String(), disabled).Inc()
	}

	volumes, err := o.store.GetVolumes(ctx, nil)
	if err != nil {
		return err
	}
	volumesGauge.Reset()
	var total float64
	for _, v := range volumes {
		volumesGauge.WithLabelValues(v.BackendHost(), v.Status.String()).Inc()
		total += float64(v.Size)
	}
	volumesTotalGiBGauge.Set(total)
	return nil
}

func (o *BlockOrchestrator) Stop(ctx context.Context) error {
	var err error
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		o.wg.Wait()
		err = o.transport.Stop(ctx)

		o.mutex.Lock()
		for _, m := range o.managers {
			m.Stop(ctx)
		}
		o.bootstrapError = errors.NotReadyError()
		o.mutex.Unlock()
		Logc(ctx).Info("Orchestrator stopped.")
	})
	return err
}

func (o *BlockOrchestrator) GetVersion(context.Context) (string, error) {
	return config.OrchestratorVersion.String(), nil
}

// replicationTarget is the record a failover, freeze or thaw request acts on: a cluster
// and its member services, or one standalone service.
type replicationTarget struct {
	cluster  *storage.Cluster
	services []*storage.Service
}

func (t *replicationTarget) String() string {
	if t.cluster != nil {
		return t.cluster.Name
	}
	return t.services[0].Host
}

func (t *replicationTarget) status() storage.ReplicationStatus {
	if t.cluster != nil {
		return t.cluster.ReplicationStatus
	}
	return t.services[0].ReplicationStatus
}

// stateFields points at the fields a replication target's guard reads and writes.
type stateFields struct {
	status *storage.ReplicationStatus
	frozen *bool
}

func serviceFields(s *storage.Service) stateFields { return stateFields{&s.ReplicationStatus, &s.Frozen} }
func clusterFields(c *storage.Cluster) stateFields { return stateFields{&c.ReplicationStatus, &c.Frozen} }

func (o *BlockOrchestrator) resolveTarget(ctx context.Context, host, cluster string) (*replicationTarget, error) {
	if (host == "") == (cluster == "") {
		return nil, errors.InvalidInputError("exactly one of host or cluster must be given")
	}

	if host != "" {
		service, err := o.store.GetService(ctx, host, config.VolumeBinary)
		if err != nil {
			if persistentstore.MatchKeyNotFoundErr(err) {
				return nil, errors.ServiceNotFoundError("volume service %s not found", host)
			}
			return nil, err
		}
		if service.IsClustered() {
			return nil, errors.InvalidInputError("service %s belongs to cluster %s; address the cluster instead",
				host, service.ClusterName)
		}
		return &replicationTarget{services: []*storage.Service{service}}, nil
	}

	c, err := o.store.GetCluster(ctx, cluster, config.VolumeBinary)
	if err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return nil, errors.ServiceNotFoundError("cluster %s not found", cluster)
		}
		return nil, err
	}
	services, err := o.store.GetServices(ctx, &persistentstore.ServiceFilter{
		Binary:      config.VolumeBinary,
		ClusterName: cluster,
	})
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, errors.ServiceNotFoundError("cluster %s has no volume services", cluster)
	}
	return &replicationTarget{cluster: c, services: services}, nil
}

// compareAndSwap applies apply to the target if its current record satisfies expected.
// For a cluster the guard is the cluster record, and its members follow unconditionally.
func (o *BlockOrchestrator) compareAndSwap(
	ctx context.Context, t *replicationTarget, expected func(stateFields) bool, apply func(stateFields),
) (bool, error) {
	if t.cluster == nil {
		return o.store.ConditionalUpdateService(ctx, t.services[0].Host, config.VolumeBinary,
			func(s *storage.Service) bool { return expected(serviceFields(s)) },
			func(s *storage.Service) { apply(serviceFields(s)) })
	}

	ok, err := o.store.ConditionalUpdateCluster(ctx, t.cluster.Name, config.VolumeBinary,
		func(c *storage.Cluster) bool { return expected(clusterFields(c)) },
		func(c *storage.Cluster) { apply(clusterFields(c)) })
	if err != nil || !ok {
		return ok, err
	}
	var errs error
	for _, s := range t.services {
		_, err = o.store.ConditionalUpdateService(ctx, s.Host, config.VolumeBinary, always[storage.Service],
			func(s *storage.Service) { apply(serviceFields(s)) })
		errs = errors.Append(errs, err)
	}
	return true, errs
}

func (o *BlockOrchestrator) Failover(ctx context.Context, host, cluster, secondaryID string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowServiceFailover, LogLayerCore)
	defer recordTiming("failover", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	target, err := o.resolveTarget(ctx, host, cluster)
	if err != nil {
		return err
	}
	if target.cluster != nil && !o.volumeAPI.CanSendVersion(config.ClusterFailoverRPCVersion) {
		return errors.UnavailableDuringUpgradeError("failover of a cluster")
	}

	allowed := []storage.ReplicationStatus{storage.ReplicationEnabled}
	if secondaryID == config.FailbackTarget {
		allowed = []storage.ReplicationStatus{storage.ReplicationFailedOver, storage.ReplicationFailoverError}
	}
	previous := target.status()

	ok, err := o.compareAndSwap(ctx, target,
		func(f stateFields) bool { return f.status.In(allowed...) },
		func(f stateFields) { *f.status = storage.ReplicationFailingOver })
	if err != nil {
		return err
	}
	if !ok {
		return errors.UnexpectedStatusError("cannot fail over %s to %s; replication status must be one of %v",
			target, secondaryID, allowed)
	}

	if target.cluster != nil {
		err = o.volumeAPI.Failover(ctx, target.services[0], secondaryID)
	} else {
		err = o.volumeAPI.FailoverHost(ctx, target.services[0], secondaryID)
	}
	if err != nil {
		Logc(ctx).WithField("target", target.String()).WithError(err).Error("Could not start failover.")
		if _, revertErr := o.compareAndSwap(ctx, target,
			func(f stateFields) bool { return *f.status == storage.ReplicationFailingOver },
			func(f stateFields) { *f.status = previous }); revertErr != nil {
			Logc(ctx).WithError(revertErr).Error("Could not revert replication status.")
		}
		return err
	}

	Audit().Logf(ctx, AuditAdminOp, LogFields{"target": target.String()}, "Failover to %s requested.", secondaryID)
	return nil
}

func (o *BlockOrchestrator) Freeze(ctx context.Context, host, cluster string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowServiceFreeze, LogLayerCore)
	defer recordTiming("freeze", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	target, err := o.resolveTarget(ctx, host, cluster)
	if err != nil {
		return err
	}

	ok, err := o.compareAndSwap(ctx, target,
		func(f stateFields) bool { return !*f.frozen },
		func(f stateFields) { *f.frozen = true })
	if err != nil {
		return err
	}
	if !ok {
		return errors.UnexpectedStatusError("%s is already frozen", target)
	}

	for _, service := range target.services {
		if castErr := o.volumeAPI.FreezeHost(ctx, service); castErr != nil {
			err = errors.Append(err, castErr)
		}
	}
	Audit().Log(ctx, AuditAdminOp, LogFields{"target": target.String()}, "Freeze requested.")
	return err
}

// Thaw unfreezes the target. When any backend cannot thaw, the target is frozen again.
func (o *BlockOrchestrator) Thaw(ctx context.Context, host, cluster string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowServiceThaw, LogLayerCore)
	defer recordTiming("thaw", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	target, err := o.resolveTarget(ctx, host, cluster)
	if err != nil {
		return err
	}

	ok, err := o.compareAndSwap(ctx, target,
		func(f stateFields) bool { return *f.frozen },
		func(f stateFields) { *f.frozen = false })
	if err != nil {
		return err
	}
	if !ok {
		return errors.UnexpectedStatusError("%s is not frozen", target)
	}

	thawed := true
	for _, service := range target.services {
		ok, callErr := o.volumeAPI.ThawHost(ctx, service)
		if callErr != nil || !ok {
			Logc(ctx).WithField("host", service.Host).WithError(callErr).Error("Backend did not thaw.")
			thawed = false
		}
	}
	if thawed {
		Audit().Log(ctx, AuditAdminOp, LogFields{"target": target.String()}, "Thawed.")
		return nil
	}

	if _, refreezeErr := o.compareAndSwap(ctx, target, func(stateFields) bool { return true },
		func(f stateFields) { *f.frozen = true }); refreezeErr != nil {
		Logc(ctx).WithError(refreezeErr).Error("Could not refreeze after a failed thaw.")
	}
	return errors.VolumeDriverError("%s could not be thawed; it remains frozen", target)
}

func (o *BlockOrchestrator) getVolume(ctx context.Context, id string) (*storage.Volume, error) {
	volume, err := o.store.GetVolume(ctx, id)
	if err != nil {
		return nil, notFound(err, "volume", id)
	}
	return volume, nil
}

// transitionVolume moves a volume whose status is one of from, as applied by apply.
func (o *BlockOrchestrator) transitionVolume(
	ctx context.Context, id string, from []storage.VolumeStatus, expected func(*storage.Volume) bool,
	apply func(*storage.Volume),
) (*storage.Volume, error) {
	var updated *storage.Volume
	ok, err := o.store.ConditionalUpdateVolume(ctx, id,
		func(v *storage.Volume) bool {
			for _, s := range from {
				if v.Status == s {
					return expected == nil || expected(v)
				}
			}
			return false
		},
		func(v *storage.Volume) {
			apply(v)
			v.UpdatedAt = time.Now().UTC()
			updated = v.SmartCopy()
		})
	if err != nil {
		return nil, notFound(err, "volume", id)
	}
	if !ok {
		return nil, errors.UnexpectedStatusError("volume %s status must be one of %v", id, from)
	}
	return updated, nil
}

func (o *BlockOrchestrator) hasSnapshots(ctx context.Context, volumeID string) (bool, error) {
	snapshots, err := o.store.GetSnapshots(ctx, &persistentstore.SnapshotFilter{VolumeIDs: []string{volumeID}})
	return len(snapshots) > 0, err
}

func (o *BlockOrchestrator) CreateVolume(ctx context.Context, request *VolumeCreateRequest) (
	volume *storage.Volume, err error,
) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeCreate, LogLayerCore)
	defer recordTiming("volume_create", &err)()

	if err = o.ready(); err != nil {
		return nil, err
	}
	if request == nil {
		return nil, errors.InvalidInputError("no volume create request")
	}
	size := request.Size
	switch {
	case size < 0:
		return nil, errors.InvalidInputError("volume size %d must not be negative", size)
	case size == 0:
		size = config.DefaultVolumeSizeGiB
	}
	if request.GroupID != "" {
		if _, err = o.store.GetGroup(ctx, request.GroupID); err != nil {
			return nil, notFound(err, "group", request.GroupID)
		}
	}

	now := time.Now().UTC()
	volume = &storage.Volume{
		ID:                uuid.NewString(),
		Name:              request.Name,
		Size:              size,
		Status:            storage.VolumeStatusCreating,
		ReplicationStatus: storage.ReplicationDisabled,
		GroupID:           request.GroupID,
		AvailabilityZone:  request.AvailabilityZone,
		VolumeType:        request.VolumeType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err = o.store.AddVolume(ctx, volume); err != nil {
		return nil, err
	}

	if err = o.schedulerAPI.CreateVolume(ctx, storage.NewRequestSpecForVolume(volume),
		&storage.FilterProperties{}); err != nil {
		_, _ = o.store.ConditionalUpdateVolume(ctx, volume.ID, always[storage.Volume],
			func(v *storage.Volume) { v.Status = storage.VolumeStatusError })
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{"volume": volume.ID, "size": volume.Size}).Info("Volume create accepted.")
	return volume, nil
}

func (o *BlockOrchestrator) GetVolume(ctx context.Context, id string) (volume *storage.Volume, err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeGet, LogLayerCore)
	if err = o.ready(); err != nil {
		return nil, err
	}
	return o.getVolume(ctx, id)
}

func (o *BlockOrchestrator) ListVolumes(
	ctx context.Context, filter *persistentstore.VolumeFilter,
) ([]*storage.Volume, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	volumes, err := o.store.GetVolumes(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(volumes, func(i, j int) bool {
		if !volumes[i].CreatedAt.Equal(volumes[j].CreatedAt) {
			return volumes[i].CreatedAt.Before(volumes[j].CreatedAt)
		}
		return volumes[i].ID < volumes[j].ID
	})
	return volumes, nil
}

var deletableStatuses = []storage.VolumeStatus{
	storage.VolumeStatusAvailable,
	storage.VolumeStatusError,
	storage.VolumeStatusErrorDeleting,
	storage.VolumeStatusErrorExtending,
}

func (o *BlockOrchestrator) DeleteVolume(ctx context.Context, id string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeDelete, LogLayerCore)
	defer recordTiming("volume_delete", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	if _, err = o.getVolume(ctx, id); err != nil {
		return err
	}
	snapshots, err := o.hasSnapshots(ctx, id)
	if err != nil {
		return err
	}
	if snapshots {
		return errors.InvalidInputError("volume %s has snapshots", id)
	}

	volume, err := o.transitionVolume(ctx, id, deletableStatuses, nil,
		func(v *storage.Volume) { v.Status = storage.VolumeStatusDeleting })
	if err != nil {
		return err
	}

	// Never placed, so no backend holds it.
	if volume.Host == "" {
		return o.store.DeleteVolume(ctx, id)
	}
	return o.volumeAPI.DeleteVolume(ctx, volume)
}

func (o *BlockOrchestrator) ExtendVolume(ctx context.Context, id string, newSizeGiB int) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeExtend, LogLayerCore)
	defer recordTiming("volume_extend", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	current, err := o.getVolume(ctx, id)
	if err != nil {
		return err
	}
	if newSizeGiB <= current.Size {
		return errors.InvalidInputError("new size %d must be greater than the current size %d", newSizeGiB,
			current.Size)
	}

	volume, err := o.transitionVolume(ctx, id, []storage.VolumeStatus{storage.VolumeStatusAvailable},
		func(v *storage.Volume) bool { return v.Size < newSizeGiB },
		func(v *storage.Volume) { v.SetStatus(storage.VolumeStatusExtending) })
	if err != nil {
		return err
	}
	return o.schedulerAPI.ExtendVolume(ctx, volume, newSizeGiB, nil)
}

func (o *BlockOrchestrator) MigrateVolume(ctx context.Context, id, destHost string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeMigrate, LogLayerCore)
	defer recordTiming("volume_migrate", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	if destHost == "" {
		return errors.InvalidInputError("a destination host is required")
	}
	current, err := o.getVolume(ctx, id)
	if err != nil {
		return err
	}
	if storage.SameBackend(current.Host, destHost) {
		return errors.InvalidInputError("volume %s already lives on %s", id, current.BackendHost())
	}
	destBackend := storage.ExtractHost(destHost, storage.HostLevelBackend, false)
	if _, err = o.store.GetService(ctx, destBackend, config.VolumeBinary); err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return errors.ServiceNotFoundError("volume service %s not found", destBackend)
		}
		return err
	}
	snapshots, err := o.hasSnapshots(ctx, id)
	if err != nil {
		return err
	}
	if snapshots {
		return errors.InvalidInputError("volume %s has snapshots", id)
	}

	volume, err := o.transitionVolume(ctx, id,
		[]storage.VolumeStatus{storage.VolumeStatusAvailable, storage.VolumeStatusInUse},
		func(v *storage.Volume) bool {
			return v.MigrationStatus != storage.MigrationStatusStarting &&
				v.MigrationStatus != storage.MigrationStatusMigrating
		},
		func(v *storage.Volume) {
			v.SetStatus(storage.VolumeStatusMaintenance)
			v.MigrationStatus = storage.MigrationStatusStarting
		})
	if err != nil {
		return err
	}
	return o.schedulerAPI.MigrateVolume(ctx, volume, destHost, nil)
}

func (o *BlockOrchestrator) RetypeVolume(ctx context.Context, id string, newType *storage.VolumeType) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowVolumeRetype, LogLayerCore)
	defer recordTiming("volume_retype", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	if newType == nil || newType.Name == "" {
		return errors.InvalidInputError("a volume type is required")
	}

	volume, err := o.transitionVolume(ctx, id, []storage.VolumeStatus{storage.VolumeStatusAvailable}, nil,
		func(v *storage.Volume) { v.SetStatus(storage.VolumeStatusRetyping) })
	if err != nil {
		return err
	}
	return o.schedulerAPI.RetypeVolume(ctx, volume, newType, nil)
}

func (o *BlockOrchestrator) CreateSnapshot(ctx context.Context, volumeID, name string) (
	snapshot *storage.Snapshot, err error,
) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowSnapshotCreate, LogLayerCore)
	defer recordTiming("snapshot_create", &err)()

	if err = o.ready(); err != nil {
		return nil, err
	}
	volume, err := o.getVolume(ctx, volumeID)
	if err != nil {
		return nil, err
	}
	if volume.Status != storage.VolumeStatusAvailable && volume.Status != storage.VolumeStatusInUse {
		return nil, errors.UnexpectedStatusError("volume %s is %s", volumeID, volume.Status)
	}

	snapshot = &storage.Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		VolumeID:  volume.ID,
		Size:      volume.Size,
		Status:    storage.SnapshotStatusCreating,
		CreatedAt: time.Now().UTC(),
	}
	if err = o.store.AddSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	if err = o.volumeAPI.CreateSnapshot(ctx, volume, snapshot); err != nil {
		snapshot.Status = storage.SnapshotStatusError
		_ = o.store.UpdateSnapshot(ctx, snapshot)
		return nil, err
	}
	return snapshot, nil
}

func (o *BlockOrchestrator) ListSnapshots(ctx context.Context, volumeID string) ([]*storage.Snapshot, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowSnapshotList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	filter := &persistentstore.SnapshotFilter{}
	if volumeID != "" {
		filter.VolumeIDs = []string{volumeID}
	}
	snapshots, err := o.store.GetSnapshots(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(snapshots, func(i, j int) bool { return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt) })
	return snapshots, nil
}

func (o *BlockOrchestrator) DeleteSnapshot(ctx context.Context, id string) (err error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowSnapshotDelete, LogLayerCore)
	defer recordTiming("snapshot_delete", &err)()

	if err = o.ready(); err != nil {
		return err
	}
	snapshot, err := o.store.GetSnapshot(ctx, id)
	if err != nil {
		return notFound(err, "snapshot", id)
	}
	if snapshot.Status == storage.SnapshotStatusDeleting || snapshot.Status == storage.SnapshotStatusCreating {
		return errors.UnexpectedStatusError("snapshot %s is %s", id, snapshot.Status)
	}
	volume, err := o.getVolume(ctx, snapshot.VolumeID)
	if err != nil {
		return err
	}

	snapshot.Status = storage.SnapshotStatusDeleting
	if err = o.store.UpdateSnapshot(ctx, snapshot); err != nil {
		return err
	}
	return o.volumeAPI.DeleteSnapshot(ctx, volume, snapshot)
}

func (o *BlockOrchestrator) ListGroups(ctx context.Context) ([]*storage.Group, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowGroupList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.store.GetGroups(ctx, nil)
}

func (o *BlockOrchestrator) ListServices(
	ctx context.Context, filter *persistentstore.ServiceFilter,
) ([]*storage.Service, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowServiceList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	services, err := o.store.GetServices(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].Binary != services[j].Binary {
			return services[i].Binary < services[j].Binary
		}
		return services[i].Host < services[j].Host
	})
	return services, nil
}

func (o *BlockOrchestrator) GetService(ctx context.Context, host string) (*storage.Service, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowServiceGet, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	service, err := o.store.GetService(ctx, host, config.VolumeBinary)
	if err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return nil, errors.ServiceNotFoundError("volume service %s not found", host)
		}
		return nil, err
	}
	return service, nil
}

func (o *BlockOrchestrator) ListClusters(ctx context.Context) ([]*storage.Cluster, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowClusterList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	clusters, err := o.store.GetClusters(ctx, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(clusters, func(i, j int) bool { return clusters[i].Name < clusters[j].Name })
	return clusters, nil
}

func (o *BlockOrchestrator) ListMessages(
	ctx context.Context, filter *persistentstore.MessageFilter,
) ([]*storage.Message, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowMessageList, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.messages.GetAll(ctx, filter)
}

func (o *BlockOrchestrator) GetMessage(ctx context.Context, id string) (*storage.Message, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowMessageGet, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.messages.Get(ctx, id)
}

func (o *BlockOrchestrator) DeleteMessage(ctx context.Context, id string) error {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowMessageDelete, LogLayerCore)
	if err := o.ready(); err != nil {
		return err
	}
	return o.messages.Delete(ctx, id)
}

func (o *BlockOrchestrator) GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowSchedulerGetPools, LogLayerCore)
	if err := o.ready(); err != nil {
		return nil, err
	}
	return o.schedulerAPI.GetPools(ctx, backend)
}

func (o *BlockOrchestrator) GetManageableVolumes(
	ctx context.Context, host string, opts *storage.ManageableListOptions,
) ([]*storage.ManageableVolume, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowBackendManageable, LogLayerCore)
	service, err := o.GetService(ctx, host)
	if err != nil {
		return nil, err
	}
	return o.volumeAPI.GetManageableVolumes(ctx, service, opts)
}

func (o *BlockOrchestrator) GetManageableSnapshots(
	ctx context.Context, host string, opts *storage.ManageableListOptions,
) ([]*storage.ManageableSnapshot, error) {
	ctx = GenerateRequestContext(ctx, "", ContextSourceInternal, WorkflowBackendManageable, LogLayerCore)
	service, err := o.GetService(ctx, host)
	if err != nil {
		return nil, err
	}
	return o.volumeAPI.GetManageableSnapshots(ctx, service, opts)
}

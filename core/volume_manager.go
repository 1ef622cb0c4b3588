// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/message"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// VolumeManager serves the volume API for one backend. The RPC transport serializes its
// handlers, so the driver never sees two calls at once.
type VolumeManager struct {
	host         string
	clusterName  string
	backend      *config.BackendConfig
	driver       storage.Driver
	store        persistentstore.Client
	messages     *message.API
	volumeAPI    *rpcapi.VolumeAPI
	schedulerAPI *rpcapi.SchedulerAPI
	opts         config.ServiceOptions

	hashMutex        sync.Mutex
	capabilitiesHash uint64
}

func NewVolumeManager(
	backend *config.BackendConfig, driver storage.Driver, store persistentstore.Client, messages *message.API,
	volumeAPI *rpcapi.VolumeAPI, schedulerAPI *rpcapi.SchedulerAPI, opts config.ServiceOptions,
) *VolumeManager {
	return &VolumeManager{
		host:         backend.ServiceHost(),
		clusterName:  backend.ClusterName(),
		backend:      backend,
		driver:       driver,
		store:        store,
		messages:     messages,
		volumeAPI:    volumeAPI,
		schedulerAPI: schedulerAPI,
		opts:         opts,
	}
}

func (m *VolumeManager) Host() string {
	return m.host
}

func (m *VolumeManager) ClusterName() string {
	return m.clusterName
}

func (m *VolumeManager) initialReplicationStatus() storage.ReplicationStatus {
	if len(m.backend.ReplicationTargets) > 0 {
		return storage.ReplicationEnabled
	}
	return storage.ReplicationDisabled
}

// Init creates or refreshes the service record, and the cluster record of a clustered
// service. Replication state already on record is kept.
func (m *VolumeManager) Init(ctx context.Context) error {
	now := time.Now().UTC()

	service, err := m.store.GetService(ctx, m.host, config.VolumeBinary)
	switch {
	case persistentstore.MatchKeyNotFoundErr(err):
		service = &storage.Service{
			ID:                uuid.NewString(),
			Host:              m.host,
			Binary:            config.VolumeBinary,
			ClusterName:       m.clusterName,
			ReplicationStatus: m.initialReplicationStatus(),
			AvailabilityZone:  m.backend.AvailabilityZone,
			RPCVersion:        config.VolumeRPCAPIVersion,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err = m.store.AddService(ctx, service); err != nil {
			return err
		}
		Logc(ctx).WithField("host", m.host).Info("Registered volume service.")
	case err != nil:
		return err
	default:
		service.ClusterName = m.clusterName
		service.AvailabilityZone = m.backend.AvailabilityZone
		service.RPCVersion = config.VolumeRPCAPIVersion
		service.UpdatedAt = now
		if err = m.store.UpdateService(ctx, service); err != nil {
			return err
		}
		Logc(ctx).WithFields(LogFields{
			"host":              m.host,
			"replicationStatus": service.ReplicationStatus,
			"activeBackendID":   service.ActiveBackendID,
		}).Info("Resumed volume service.")
	}

	if m.clusterName == "" {
		return nil
	}
	_, err = m.store.GetCluster(ctx, m.clusterName, config.VolumeBinary)
	if !persistentstore.MatchKeyNotFoundErr(err) {
		return err
	}
	err = m.store.AddCluster(ctx, &storage.Cluster{
		Name:              m.clusterName,
		Binary:            config.VolumeBinary,
		ReplicationStatus: m.initialReplicationStatus(),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if persistentstore.MatchKeyExistsErr(err) {
		// Another member got there first.
		return nil
	}
	return err
}

// Register serves the volume API for this backend.
func (m *VolumeManager) Register(ctx context.Context, transport *rpc.Transport) error {
	return transport.Register(ctx, rpc.Target{Topic: config.VolumeTopic, Server: m.host, Cluster: m.clusterName},
		config.VolumeRPCAPIVersion, m.Endpoint())
}

func (m *VolumeManager) Endpoint() rpc.Endpoint {
	return rpc.Endpoint{
		rpcapi.MethodCreateVolume:               rpc.HandleCast(m.createVolume),
		rpcapi.MethodDeleteVolume:               rpc.HandleCast(m.deleteVolume),
		rpcapi.MethodExtendVolume:               rpc.HandleCast(m.extendVolume),
		rpcapi.MethodMigrateVolume:              rpc.HandleCast(m.migrateVolume),
		rpcapi.MethodAcceptMigration:            rpc.Handle(m.acceptMigration),
		rpcapi.MethodRetypeVolume:               rpc.HandleCast(m.retypeVolume),
		rpcapi.MethodCreateSnapshot:             rpc.HandleCast(m.createSnapshot),
		rpcapi.MethodDeleteSnapshot:             rpc.HandleCast(m.deleteSnapshot),
		rpcapi.MethodFailoverHost:               rpc.HandleCast(m.failoverHost),
		rpcapi.MethodFailover:                   rpc.HandleCast(m.failoverHost),
		rpcapi.MethodFailoverCompleted:          rpc.HandleCast(m.failoverCompleted),
		rpcapi.MethodFreezeHost:                 rpc.HandleCast(m.freezeHost),
		rpcapi.MethodThawHost:                   rpc.Handle(m.thawHost),
		rpcapi.MethodGetCapabilities:            rpc.Handle(m.getCapabilities),
		rpcapi.MethodGetManageableVolumes:       rpc.Handle(m.getManageableVolumes),
		rpcapi.MethodGetManageableSnapshots:     rpc.Handle(m.getManageableSnapshots),
		rpcapi.MethodPublishServiceCapabilities: rpc.HandleCast(m.publishServiceCapabilities),
	}
}

// Stop tells the driver to clean up.
func (m *VolumeManager) Stop(ctx context.Context) {
	m.driver.Terminate(ctx)
}

func (m *VolumeManager) updateVolume(ctx context.Context, id string, fn func(*storage.Volume)) {
	if _, err := m.store.ConditionalUpdateVolume(ctx, id, always[storage.Volume], fn); err != nil {
		Logc(ctx).WithField("volume", id).WithError(err).Error("Could not update volume.")
	}
}

func (m *VolumeManager) updateService(ctx context.Context, fn func(*storage.Service)) error {
	_, err := m.store.ConditionalUpdateService(ctx, m.host, config.VolumeBinary, always[storage.Service], fn)
	return err
}

// driverCreate creates the volume, retrying while the backend cannot be reached.
func (m *VolumeManager) driverCreate(ctx context.Context, volume *storage.Volume) (*storage.VolumeFields, error) {
	var fields *storage.VolumeFields
	create := func() error {
		var err error
		fields, err = m.driver.CreateVolume(ctx, volume.SmartCopy())
		if err != nil && !errors.IsConnectionError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	createNotify := func(err error, duration time.Duration) {
		Logc(ctx).WithFields(LogFields{
			"volume":    volume.ID,
			"increment": duration,
		}).WithError(err).Debug("Backend unreachable, retrying volume create.")
	}

	retry := backoff.WithMaxRetries(backoff.NewConstantBackOff(m.opts.DriverRetryInterval), m.opts.DriverRetries)
	if err := backoff.RetryNotify(create, backoff.WithContext(retry, ctx), createNotify); err != nil {
		return nil, err
	}
	return fields, nil
}

func (m *VolumeManager) createVolume(ctx context.Context, args *rpcapi.CreateVolumeArgs) (err error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	defer recordTiming("volume_manager_create", &err)()

	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return notFound(err, "volume", args.VolumeID)
	}
	logFields := LogFields{"volume": volume.ID, "host": volume.Host}

	fields, err := m.driverCreate(ctx, volume)
	if err != nil {
		props := args.FilterProperties
		if errors.IsVolumeDriverError(err) && props != nil && props.Retry != nil && args.RequestSpec != nil {
			Logc(ctx).WithFields(logFields).WithError(err).Warning("Volume create failed, rescheduling.")
			props.Retry.Exception = err.Error()
			return m.schedulerAPI.CreateVolume(ctx, args.RequestSpec, props)
		}

		Logc(ctx).WithFields(logFields).WithError(err).Error("Volume create failed.")
		m.updateVolume(ctx, volume.ID, func(v *storage.Volume) { v.Status = storage.VolumeStatusError })
		detail := message.DetailForError(err)
		if detail == storage.DetailUnknownError {
			detail = storage.DetailDriverFailedCreate
		}
		_, _ = m.messages.Create(ctx, storage.ResourceTypeVolume, volume.ID, storage.ActionCreateVolumeFromBackend,
			detail)
		return err
	}

	m.updateVolume(ctx, volume.ID, func(v *storage.Volume) {
		v.Status = storage.VolumeStatusAvailable
		v.PreviousStatus = ""
		if v.ReplicationStatus == "" {
			v.ReplicationStatus = storage.ReplicationDisabled
		}
		if fields != nil {
			fields.Apply(v)
		}
		v.UpdatedAt = time.Now().UTC()
	})
	Logc(ctx).WithFields(logFields).Info("Created volume.")
	return nil
}

func (m *VolumeManager) deleteVolume(ctx context.Context, args *rpcapi.VolumeArgs) (err error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	defer recordTiming("volume_manager_delete", &err)()

	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return nil
		}
		return err
	}

	if err = m.driver.DeleteVolume(ctx, volume.SmartCopy()); err != nil {
		Logc(ctx).WithField("volume", volume.ID).WithError(err).Error("Volume delete failed.")
		m.updateVolume(ctx, volume.ID, func(v *storage.Volume) { v.Status = storage.VolumeStatusErrorDeleting })
		return err
	}
	if err = m.store.DeleteVolume(ctx, volume.ID); err != nil && !persistentstore.MatchKeyNotFoundErr(err) {
		return err
	}
	Logc(ctx).WithField("volume", volume.ID).Info("Deleted volume.")
	return nil
}

func (m *VolumeManager) extendVolume(ctx context.Context, args *rpcapi.ExtendVolumeArgs) (err error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	defer recordTiming("volume_manager_extend", &err)()

	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return notFound(err, "volume", args.VolumeID)
	}

	if err = m.driver.ExtendVolume(ctx, volume.SmartCopy(), args.NewSize); err != nil {
		Logc(ctx).WithField("volume", volume.ID).WithError(err).Error("Volume extend failed.")
		m.updateVolume(ctx, volume.ID, func(v *storage.Volume) {
			v.Status = storage.VolumeStatusErrorExtending
			v.PreviousStatus = ""
		})
		_, _ = m.messages.Create(ctx, storage.ResourceTypeVolume, volume.ID, storage.ActionExtendVolume,
			storage.DetailDriverFailedExtend)
		return err
	}

	m.updateVolume(ctx, volume.ID, func(v *storage.Volume) {
		v.Size = args.NewSize
		v.RestoreStatus(storage.VolumeStatusAvailable)
	})
	Logc(ctx).WithFields(LogFields{"volume": volume.ID, "size": args.NewSize}).Info("Extended volume.")
	return nil
}

// migrateVolume has the destination backend take a copy, then removes the source copy
// and points the record at the destination.
func (m *VolumeManager) migrateVolume(ctx context.Context, args *rpcapi.MigrateVolumeArgs) (err error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	defer recordTiming("volume_manager_migrate", &err)()

	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return notFound(err, "volume", args.VolumeID)
	}
	logFields := LogFields{"volume": volume.ID, "source": volume.Host, "destination": args.DestHost}

	m.updateVolume(ctx, volume.ID, func(v *storage.Volume) { v.MigrationStatus = storage.MigrationStatusMigrating })

	fields, err := m.volumeAPI.AcceptMigration(ctx, volume, args.DestHost)
	if err != nil {
		Logc(ctx).WithFields(logFields).WithError(err).Error("Destination backend did not accept the volume.")
		m.updateVolume(ctx, volume.ID, func(v *storage.Volume) {
			v.MigrationStatus = storage.MigrationStatusError
			if v.Status == storage.VolumeStatusMaintenance {
				v.RestoreStatus(storage.VolumeStatusAvailable)
			}
		})
		_, _ = m.messages.Create(ctx, storage.ResourceTypeVolume, volume.ID, storage.ActionMigrateVolume,
			storage.DetailBackendNotCapable)
		return err
	}

	if deleteErr := m.driver.DeleteVolume(ctx, volume.SmartCopy()); deleteErr != nil {
		Logc(ctx).WithFields(logFields).WithError(deleteErr).Warning("Could not remove the source copy.")
	}

	destCluster := ""
	destBackend := storage.ExtractHost(args.DestHost, storage.HostLevelBackend, false)
	if dest, getErr := m.store.GetService(ctx, destBackend, config.VolumeBinary); getErr == nil {
		destCluster = dest.ClusterName
	}

	m.updateVolume(ctx, volume.ID, func(v *storage.Volume) {
		fields.Apply(v)
		v.Host = args.DestHost
		v.ClusterName = destCluster
		v.MigrationStatus = storage.MigrationStatusSuccess
		v.RestoreStatus(storage.VolumeStatusAvailable)
	})
	Logc(ctx).WithFields(logFields).Info("Migrated volume.")
	return nil
}

// acceptMigration creates this backend's copy of a migrating volume.
func (m *VolumeManager) acceptMigration(
	ctx context.Context, args *rpcapi.AcceptMigrationArgs,
) (*storage.VolumeFields, error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	if args.Volume == nil {
		return nil, errors.InvalidInputError("accept_migration carries no volume")
	}

	volume := args.Volume.SmartCopy()
	volume.Host = args.DestHost
	fields, err := m.driver.CreateVolume(ctx, volume)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = &storage.VolumeFields{}
	}
	if fields.ReplicationStatus == nil {
		fields.ReplicationStatus = storage.Ptr(storage.ReplicationDisabled)
	}
	fields.Host = storage.Ptr(args.DestHost)
	return fields, nil
}

func (m *VolumeManager) retypeVolume(ctx context.Context, args *rpcapi.RetypeVolumeArgs) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	replication := storage.ReplicationDisabled
	if args.NewType.IsReplicated() && len(m.backend.ReplicationTargets) > 0 {
		replication = storage.ReplicationEnabled
	}
	m.updateVolume(ctx, args.VolumeID, func(v *storage.Volume) {
		v.VolumeType = args.NewType
		v.ReplicationStatus = replication
		v.RestoreStatus(storage.VolumeStatusAvailable)
	})
	Logc(ctx).WithField("volume", args.VolumeID).Info("Retyped volume.")
	return nil
}

func (m *VolumeManager) createSnapshot(ctx context.Context, args *rpcapi.SnapshotArgs) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	snapshot, err := m.store.GetSnapshot(ctx, args.SnapshotID)
	if err != nil {
		return notFound(err, "snapshot", args.SnapshotID)
	}
	volume, err := m.store.GetVolume(ctx, args.VolumeID)
	if err != nil {
		return notFound(err, "volume", args.VolumeID)
	}

	snapshot.Status = storage.SnapshotStatusAvailable
	driverErr := m.driver.CreateSnapshot(ctx, snapshot.SmartCopy(), volume.SmartCopy())
	if driverErr != nil {
		Logc(ctx).WithField("snapshot", snapshot.ID).WithError(driverErr).Error("Snapshot create failed.")
		snapshot.Status = storage.SnapshotStatusError
	}
	if err = m.store.UpdateSnapshot(ctx, snapshot); err != nil {
		return err
	}
	return driverErr
}

func (m *VolumeManager) deleteSnapshot(ctx context.Context, args *rpcapi.SnapshotArgs) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	snapshot, err := m.store.GetSnapshot(ctx, args.SnapshotID)
	if err != nil {
		if persistentstore.MatchKeyNotFoundErr(err) {
			return nil
		}
		return err
	}
	if err = m.driver.DeleteSnapshot(ctx, snapshot.SmartCopy()); err != nil {
		Logc(ctx).WithField("snapshot", snapshot.ID).WithError(err).Error("Snapshot delete failed.")
		snapshot.Status = storage.SnapshotStatusError
		return errors.Append(err, m.store.UpdateSnapshot(ctx, snapshot))
	}
	return m.store.DeleteSnapshot(ctx, snapshot.ID)
}

// freezeHost stops management operations on the backend. A driver that cannot freeze
// only earns a warning; the service is disabled either way.
func (m *VolumeManager) freezeHost(ctx context.Context, _ *rpc.Empty) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	if err := m.driver.Freeze(ctx); err != nil {
		Logc(ctx).WithField("host", m.host).WithError(err).Warning("Driver could not freeze the backend.")
	}
	if err := m.updateService(ctx, func(s *storage.Service) {
		s.Disabled = true
		s.DisabledReason = config.DisabledReasonFrozen
	}); err != nil {
		return err
	}
	Logc(ctx).WithField("host", m.host).Info("Froze volume service.")
	return nil
}

// thawHost reports false, leaving the service disabled, when the driver cannot thaw.
func (m *VolumeManager) thawHost(ctx context.Context, _ *rpc.Empty) (bool, error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	if err := m.driver.Thaw(ctx); err != nil {
		Logc(ctx).WithField("host", m.host).WithError(err).Error("Driver could not thaw the backend.")
		return false, nil
	}
	if err := m.updateService(ctx, func(s *storage.Service) {
		if s.DisabledReason == config.DisabledReasonFrozen {
			s.Disabled = false
			s.DisabledReason = ""
		}
	}); err != nil {
		return false, err
	}
	Logc(ctx).WithField("host", m.host).Info("Thawed volume service.")
	return true, nil
}

func (m *VolumeManager) getCapabilities(ctx context.Context, _ *rpc.Empty) (*storage.Capabilities, error) {
	return m.driver.GetCapabilities(ctx)
}

func (m *VolumeManager) getManageableVolumes(
	ctx context.Context, args *rpcapi.ManageableArgs,
) ([]*storage.ManageableVolume, error) {
	existing, err := m.store.GetVolumes(ctx, &persistentstore.VolumeFilter{Host: m.host})
	if err != nil {
		return nil, err
	}
	return m.driver.GetManageableVolumes(ctx, existing, args.Options)
}

func (m *VolumeManager) getManageableSnapshots(
	ctx context.Context, args *rpcapi.ManageableArgs,
) ([]*storage.ManageableSnapshot, error) {
	volumes, err := m.store.GetVolumes(ctx, &persistentstore.VolumeFilter{Host: m.host})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(volumes))
	for _, v := range volumes {
		ids = append(ids, v.ID)
	}
	existing := make([]*storage.Snapshot, 0)
	if len(ids) > 0 {
		if existing, err = m.store.GetSnapshots(ctx, &persistentstore.SnapshotFilter{VolumeIDs: ids}); err != nil {
			return nil, err
		}
	}
	return m.driver.GetManageableSnapshots(ctx, existing, args.Options)
}

func (m *VolumeManager) publishServiceCapabilities(ctx context.Context, _ *rpc.Empty) error {
	return m.ReportCapabilities(GenerateRequestContextForLayer(ctx, LogLayerVolumeManager))
}

// ReportCapabilities refreshes the service heartbeat and sends the driver's capabilities
// to every scheduler. One scheduler is also told when the capabilities changed.
func (m *VolumeManager) ReportCapabilities(ctx context.Context) error {
	caps, err := m.driver.GetCapabilities(ctx)
	if err != nil {
		return err
	}

	var service *storage.Service
	if err = m.updateService(ctx, func(s *storage.Service) {
		s.UpdatedAt = time.Now().UTC()
		service = s.SmartCopy()
	}); err != nil {
		return err
	}
	if err = m.schedulerAPI.UpdateServiceCapabilities(ctx, service, caps); err != nil {
		return err
	}

	hash, err := hashstructure.Hash(caps, hashstructure.FormatV2, nil)
	if err != nil {
		return err
	}
	m.hashMutex.Lock()
	changed := hash != m.capabilitiesHash
	m.capabilitiesHash = hash
	m.hashMutex.Unlock()

	if changed {
		Logc(ctx).WithField("host", m.host).Debug("Backend capabilities changed.")
		return m.schedulerAPI.NotifyServiceCapabilities(ctx, service, caps)
	}
	return nil
}

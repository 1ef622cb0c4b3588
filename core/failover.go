// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// failoverHost fails this backend over to args.SecondaryBackendID, or back to the primary.
// Driver errors end up in the replication state of the service or cluster; only store
// errors are returned.
func (m *VolumeManager) failoverHost(ctx context.Context, args *rpcapi.FailoverArgs) (err error) {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)
	defer recordTiming("failover_host", &err)()

	secondaryID := args.SecondaryBackendID
	logFields := LogFields{
		"host":        m.host,
		"cluster":     m.clusterName,
		"secondaryID": secondaryID,
	}
	Logc(ctx).WithFields(logFields).Info("Starting backend failover.")

	current, frozen, err := m.replicationState(ctx)
	if err != nil {
		return err
	}
	volumes, groups, err := m.failoverResources(ctx)
	if err != nil {
		return err
	}

	replicable, notReplicable := partitionReplicable(volumes)
	if degradeErr := m.degradeNotReplicable(ctx, notReplicable); degradeErr != nil {
		Logc(ctx).WithFields(logFields).WithError(degradeErr).Error("Could not degrade every non-replicated volume.")
	}

	result, driverErr := m.driver.FailoverHost(ctx, copyVolumes(replicable), secondaryID, copyGroups(groups))
	state := failoverState(current, frozen, secondaryID, result, driverErr)

	switch {
	case driverErr == nil:
		if state.ReplicationStatus == storage.ReplicationEnabled {
			failoverOperationsTotal.WithLabelValues(outcomeFailedBack).Inc()
		} else {
			failoverOperationsTotal.WithLabelValues(outcomeFailedOver).Inc()
		}
		if applyErr := m.applyFailoverResult(ctx, replicable, groups, result, state.ReplicationStatus); applyErr != nil {
			Logc(ctx).WithFields(logFields).WithField("failures", len(errors.Errors(applyErr))).
				WithError(applyErr).Error("Could not apply every failover update.")
		}
	case errors.IsInvalidReplicationTargetError(driverErr):
		failoverOperationsTotal.WithLabelValues(outcomeInvalidTarget).Inc()
		Logc(ctx).WithFields(logFields).WithError(driverErr).Warning("Invalid replication target.")
	default:
		failoverOperationsTotal.WithLabelValues(outcomeDriverError).Inc()
		Logc(ctx).WithFields(logFields).WithError(driverErr).Error("Backend failover failed, disabling the service.")
	}

	if err = m.finishFailover(ctx, state); err != nil {
		return err
	}
	Logc(ctx).WithFields(logFields).WithFields(LogFields{
		"replicationStatus": state.ReplicationStatus,
		"activeBackendID":   state.ActiveBackendID,
	}).Info("Backend failover finished.")
	return nil
}

// failoverState computes the replication state a backend ends in after a failover attempt.
func failoverState(
	current storage.ReplicationState, frozen bool, secondaryID string, result *storage.FailoverResult, err error,
) storage.ReplicationState {
	state := current

	if err != nil {
		if errors.IsInvalidReplicationTargetError(err) {
			if current.ActiveBackendID != "" && current.ActiveBackendID != config.FailbackTarget {
				state.ReplicationStatus = storage.ReplicationFailedOver
			} else {
				state.ReplicationStatus = storage.ReplicationEnabled
			}
			return state
		}
		state.ReplicationStatus = storage.ReplicationFailoverError
		state.Disabled = true
		state.DisabledReason = fmt.Sprintf("failover error: %v", err)
		return state
	}

	activeID := secondaryID
	if result != nil && result.ActiveBackendID != "" {
		activeID = result.ActiveBackendID
	}

	if activeID == config.FailbackTarget {
		state.ReplicationStatus = storage.ReplicationEnabled
		state.ActiveBackendID = ""
		state.Disabled = frozen
		state.DisabledReason = ""
		if frozen {
			state.DisabledReason = config.DisabledReasonFrozen
		}
		return state
	}

	state.ReplicationStatus = storage.ReplicationFailedOver
	state.ActiveBackendID = activeID
	state.Disabled = true
	state.DisabledReason = config.DisabledReasonFailedOver
	return state
}

// replicationState reads the state the failover started from, off the cluster for a
// clustered service.
func (m *VolumeManager) replicationState(ctx context.Context) (storage.ReplicationState, bool, error) {
	if m.clusterName != "" {
		cluster, err := m.store.GetCluster(ctx, m.clusterName, config.VolumeBinary)
		if err != nil {
			return storage.ReplicationState{}, false, notFound(err, "cluster", m.clusterName)
		}
		return storage.ReplicationState{
			ReplicationStatus: cluster.ReplicationStatus,
			ActiveBackendID:   cluster.ActiveBackendID,
			Disabled:          cluster.Disabled,
			DisabledReason:    cluster.DisabledReason,
		}, cluster.Frozen, nil
	}

	service, err := m.store.GetService(ctx, m.host, config.VolumeBinary)
	if err != nil {
		return storage.ReplicationState{}, false, notFound(err, "service", m.host)
	}
	return storage.ReplicationState{
		ReplicationStatus: service.ReplicationStatus,
		ActiveBackendID:   service.ActiveBackendID,
		Disabled:          service.Disabled,
		DisabledReason:    service.DisabledReason,
	}, service.Frozen, nil
}

// failoverResources returns the volumes and groups owned by the backend.
func (m *VolumeManager) failoverResources(ctx context.Context) ([]*storage.Volume, []*storage.Group, error) {
	volumeFilter := &persistentstore.VolumeFilter{Host: m.host}
	groupFilter := &persistentstore.GroupFilter{Host: m.host}
	if m.clusterName != "" {
		volumeFilter = &persistentstore.VolumeFilter{ClusterName: m.clusterName}
		groupFilter = &persistentstore.GroupFilter{ClusterName: m.clusterName}
	}

	volumes, err := m.store.GetVolumes(ctx, volumeFilter)
	if err != nil {
		return nil, nil, err
	}
	groups, err := m.store.GetGroups(ctx, groupFilter)
	if err != nil {
		return nil, nil, err
	}
	return volumes, groups, nil
}

func partitionReplicable(volumes []*storage.Volume) (replicable, notReplicable []*storage.Volume) {
	for _, v := range volumes {
		if v.ReplicationStatus.IsReplicationCapable() {
			replicable = append(replicable, v)
		} else {
			notReplicable = append(notReplicable, v)
		}
	}
	return replicable, notReplicable
}

func copyVolumes(volumes []*storage.Volume) []*storage.Volume {
	copies := make([]*storage.Volume, len(volumes))
	for i, v := range volumes {
		copies[i] = v.SmartCopy()
	}
	return copies
}

func copyGroups(groups []*storage.Group) []*storage.Group {
	copies := make([]*storage.Group, len(groups))
	for i, g := range groups {
		copies[i] = g.SmartCopy()
	}
	return copies
}

// degradeNotReplicable puts volumes without a replication relationship into error. They
// cannot follow the backend to its secondary. A volume already in error keeps its restore
// point and gets no second message.
func (m *VolumeManager) degradeNotReplicable(ctx context.Context, volumes []*storage.Volume) error {
	var errs error
	for _, v := range volumes {
		var changed bool
		if _, err := m.store.ConditionalUpdateVolume(ctx, v.ID, always[storage.Volume], func(vol *storage.Volume) {
			changed = vol.Status != storage.VolumeStatusError
			vol.SetStatus(storage.VolumeStatusError)
			vol.ReplicationStatus = storage.ReplicationNotCapable
		}); err != nil {
			errs = errors.Append(errs, err)
			continue
		}
		if err := markSnapshotsError(ctx, m.store, v.ID); err != nil {
			errs = errors.Append(errs, err)
		}
		if changed {
			failoverVolumeErrorsTotal.Inc()
			_, _ = m.messages.Create(ctx, storage.ResourceTypeVolume, v.ID, storage.ActionFailoverVolume,
				storage.DetailNotReplicable)
		}
		Logc(ctx).WithField("volume", v.ID).Debug("Volume is not replicated, moved to error.")
	}
	return errs
}

// failoverFields returns the driver's update for a volume as given, or the default update
// for a volume the driver did not mention.
func failoverFields(fields storage.VolumeFields, explicit bool, target storage.ReplicationStatus) storage.VolumeFields {
	if explicit {
		return fields
	}
	return storage.VolumeFields{ReplicationStatus: storage.Ptr(target)}
}

// applyFailoverResult writes the driver's per-volume and per-group updates. Each resource
// is written on its own, so one failure does not stop the rest.
func (m *VolumeManager) applyFailoverResult(
	ctx context.Context, volumes []*storage.Volume, groups []*storage.Group, result *storage.FailoverResult,
	target storage.ReplicationStatus,
) error {
	if result == nil {
		result = &storage.FailoverResult{}
	}
	updates := result.VolumeUpdatesByID()
	passed := make(map[string]bool, len(volumes))

	var errs error
	for _, v := range volumes {
		passed[v.ID] = true
		update, explicit := updates[v.ID]
		fields := failoverFields(update, explicit, target)

		if _, err := m.store.ConditionalUpdateVolume(ctx, v.ID, always[storage.Volume], fields.Apply); err != nil {
			errs = errors.Append(errs, err)
			continue
		}
		if !fields.SetsError() {
			continue
		}

		failoverVolumeErrorsTotal.Inc()
		if err := markSnapshotsError(ctx, m.store, v.ID); err != nil {
			errs = errors.Append(errs, err)
		}
		_, _ = m.messages.Create(ctx, storage.ResourceTypeVolume, v.ID, storage.ActionFailoverVolume,
			storage.DetailFailoverFailed)
	}
	for id := range updates {
		if !passed[id] {
			Logc(ctx).WithField("volume", id).Warning("Driver returned an update for a volume it was not given.")
		}
	}

	owned := make(map[string]bool, len(groups))
	for _, g := range groups {
		owned[g.ID] = true
	}
	for _, u := range result.GroupUpdates {
		if !owned[u.GroupID] {
			Logc(ctx).WithField("group", u.GroupID).Warning("Driver returned an update for a group it was not given.")
			continue
		}
		group, err := m.store.GetGroup(ctx, u.GroupID)
		if err != nil {
			errs = errors.Append(errs, err)
			continue
		}
		u.Updates.Apply(group)
		if err = m.store.UpdateGroup(ctx, group); err != nil {
			errs = errors.Append(errs, err)
		}
	}
	return errs
}

// finishFailover records the outcome. A cluster keeps the state itself and every member
// service is told to adopt it.
func (m *VolumeManager) finishFailover(ctx context.Context, state storage.ReplicationState) error {
	apply := func(s *storage.Service) { s.ApplyReplicationState(state) }
	if m.clusterName == "" {
		_, err := m.store.ConditionalUpdateService(ctx, m.host, config.VolumeBinary, always[storage.Service], apply)
		return err
	}

	if _, err := m.store.ConditionalUpdateCluster(ctx, m.clusterName, config.VolumeBinary, always[storage.Cluster],
		func(c *storage.Cluster) { c.ApplyReplicationState(state) }); err != nil {
		return err
	}
	services, err := m.store.GetServices(ctx, &persistentstore.ServiceFilter{
		Binary:      config.VolumeBinary,
		ClusterName: m.clusterName,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, service := range services {
		g.Go(func() error {
			return m.volumeAPI.FailoverCompleted(gctx, service, state)
		})
	}
	return g.Wait()
}

// failoverCompleted adopts the replication state of this service's cluster.
func (m *VolumeManager) failoverCompleted(ctx context.Context, args *rpcapi.FailoverCompletedArgs) error {
	ctx = GenerateRequestContextForLayer(ctx, LogLayerVolumeManager)

	state := args.State
	if err := m.driver.FailoverCompleted(ctx, state.ActiveBackendID); err != nil {
		Logc(ctx).WithField("host", m.host).WithError(err).Error("Driver could not complete the cluster failover.")
		state.ReplicationStatus = storage.ReplicationError
		state.Disabled = true
		state.DisabledReason = fmt.Sprintf("failover completion error: %v", err)
	}

	_, err := m.store.ConditionalUpdateService(ctx, m.host, config.VolumeBinary, always[storage.Service],
		func(s *storage.Service) { s.ApplyReplicationState(state) })
	return err
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package fake

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestDriver(t *testing.T, options map[string]string) *StorageDriver {
	t.Helper()
	d := NewDriver()
	err := d.Initialize(context.Background(), &config.BackendConfig{
		Name:               "lvm",
		Host:               "node1",
		Driver:             "fake",
		ReplicationTargets: []string{"lvm-dr"},
		Pools: []config.PoolConfig{
			{Name: "thick", TotalCapacityGB: 100, Capabilities: map[string]string{"tier": "gold"}},
			{Name: "thin", TotalCapacityGB: 100, ThinProvisioning: true, MaxOverSubscriptionRatio: 2},
		},
		Options: options,
	})
	require.NoError(t, err)
	return d
}

func replicatedVolume(id, pool string, size int) *storage.Volume {
	return &storage.Volume{
		ID:         id,
		Size:       size,
		Host:       "node1@lvm#" + pool,
		VolumeType: &storage.VolumeType{Name: "rep", ExtraSpecs: map[string]string{storage.ReplicationEnabledSpec: "<is> True"}},
	}
}

func TestInitialize(t *testing.T) {
	d := NewDriver()
	assert.False(t, d.Initialized())
	_, err := d.GetCapabilities(context.Background())
	assert.True(t, errors.IsNotReadyError(err))

	err = d.Initialize(context.Background(), &config.BackendConfig{Name: "lvm", Host: "node1", Driver: "fake"})
	require.NoError(t, err)
	assert.True(t, d.Initialized())
	assert.Equal(t, "fake", d.Name())

	caps, err := d.GetCapabilities(context.Background())
	require.NoError(t, err)
	require.Len(t, caps.Pools, 1)
	assert.Equal(t, storage.DefaultPoolName, caps.Pools[0].PoolName)
	assert.Equal(t, storage.CapacityInfinite, caps.Pools[0].FreeCapacityGB)
	assert.False(t, caps.ReplicationEnabled)

	d.Terminate(context.Background())
	assert.False(t, d.Initialized())
}

func TestGetCapabilities(t *testing.T) {
	d := newTestDriver(t, map[string]string{"vendor_name": "Acme"})
	_, err := d.CreateVolume(context.Background(), replicatedVolume("v1", "thick", 30))
	require.NoError(t, err)

	caps, err := d.GetCapabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lvm", caps.BackendName)
	assert.Equal(t, "Acme", caps.VendorName)
	assert.Equal(t, "iSCSI", caps.StorageProtocol)
	assert.True(t, caps.ReplicationEnabled)
	assert.Equal(t, []string{"lvm-dr"}, caps.ReplicationTargets)

	expected := []storage.PoolCapabilities{
		{
			PoolName:                 "thick",
			TotalCapacityGB:          100,
			FreeCapacityGB:           70,
			ProvisionedCapacityGB:    30,
			AllocatedCapacityGB:      30,
			ThickProvisioningSupport: true,
			MaxOverSubscriptionRatio: 1,
			TotalVolumes:             1,
			Capabilities:             map[string]string{"driver": "fake", "luns_in_use": "1", "tier": "gold"},
		},
		{
			PoolName:                 "thin",
			TotalCapacityGB:          100,
			FreeCapacityGB:           100,
			ThinProvisioningSupport:  true,
			MaxOverSubscriptionRatio: 2,
			Capabilities:             map[string]string{"driver": "fake", "luns_in_use": "1"},
		},
	}
	if diff := cmp.Diff(expected, caps.Pools); diff != "" {
		t.Errorf("unexpected pools (-want +got):\n%s", diff)
	}
}

func TestCreateVolume(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, map[string]string{"limit_volume_size": "50Gi"})

	fields, err := d.CreateVolume(ctx, replicatedVolume("v1", "thick", 10))
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, storage.ReplicationEnabled, *fields.ReplicationStatus)
	assert.Equal(t, "lun=0", *fields.ReplicationDriverData)

	plain, err := d.CreateVolume(ctx, &storage.Volume{ID: "v2", Size: 10, Host: "node1@lvm#thick"})
	require.NoError(t, err)
	assert.Nil(t, plain)

	tests := []struct {
		name    string
		volume  *storage.Volume
		errorIs func(error) bool
	}{
		{"duplicate", replicatedVolume("v1", "thick", 1), errors.IsAlreadyExistsError},
		{"over size limit", replicatedVolume("v3", "thick", 60), errors.IsUnsupportedError},
		{"unknown pool", replicatedVolume("v3", "gone", 1), errors.IsVolumeDriverError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := d.CreateVolume(ctx, test.volume)
			assert.True(t, test.errorIs(err), "unexpected error %v", err)
		})
	}

	// Thick pools never over-subscribe.
	unlimited := newTestDriver(t, nil)
	_, err = unlimited.CreateVolume(ctx, replicatedVolume("big", "thick", 60))
	require.NoError(t, err)
	_, err = unlimited.CreateVolume(ctx, replicatedVolume("bigger", "thick", 41))
	assert.True(t, errors.IsVolumeDriverError(err), "unexpected error %v", err)
	_, err = unlimited.CreateVolume(ctx, replicatedVolume("fits", "thick", 40))
	assert.NoError(t, err)

	// Thin pools over-subscribe up to their ratio.
	for i := 0; i < 4; i++ {
		_, err = d.CreateVolume(ctx, replicatedVolume(fmt.Sprintf("thin%d", i), "thin", 50))
		require.NoError(t, err)
	}
	_, err = d.CreateVolume(ctx, replicatedVolume("thin-over", "thin", 1))
	assert.True(t, errors.IsVolumeDriverError(err))
}

func TestLUNsAreReused(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)

	for _, id := range []string{"a", "b", "c"} {
		_, err := d.CreateVolume(ctx, replicatedVolume(id, "thick", 1))
		require.NoError(t, err)
	}
	require.NoError(t, d.DeleteVolume(ctx, &storage.Volume{ID: "b"}))
	assert.False(t, d.HasVolume("b"))

	fields, err := d.CreateVolume(ctx, replicatedVolume("d", "thick", 1))
	require.NoError(t, err)
	assert.Equal(t, "lun=1", *fields.ReplicationDriverData)
}

func TestTransientCreateFailures(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	d.SetFaults(Faults{TransientCreateFailures: 2})

	for i := 0; i < 2; i++ {
		_, err := d.CreateVolume(ctx, replicatedVolume("v1", "thick", 1))
		assert.True(t, errors.IsConnectionError(err))
	}
	_, err := d.CreateVolume(ctx, replicatedVolume("v1", "thick", 1))
	assert.NoError(t, err)
}

func TestDeleteVolume(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	vol := replicatedVolume("v1", "thick", 10)
	_, err := d.CreateVolume(ctx, vol)
	require.NoError(t, err)

	snap := &storage.Snapshot{ID: "s1", VolumeID: "v1"}
	require.NoError(t, d.CreateSnapshot(ctx, snap, vol))
	assert.True(t, errors.IsInvalidInputError(d.DeleteVolume(ctx, vol)))

	require.NoError(t, d.DeleteSnapshot(ctx, snap))
	require.NoError(t, d.DeleteVolume(ctx, vol))
	assert.NoError(t, d.DeleteVolume(ctx, vol), "deleting a missing volume succeeds")

	caps, err := d.GetCapabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, caps.Pools[0].FreeCapacityGB)
	assert.Equal(t, 0, caps.Pools[0].TotalVolumes)
}

func TestExtendVolume(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	vol := replicatedVolume("v1", "thick", 10)
	_, err := d.CreateVolume(ctx, vol)
	require.NoError(t, err)

	require.NoError(t, d.ExtendVolume(ctx, vol, 40))
	assert.True(t, errors.IsInvalidInputError(d.ExtendVolume(ctx, vol, 20)))
	assert.True(t, errors.IsVolumeDriverError(d.ExtendVolume(ctx, vol, 101)))
	assert.True(t, errors.IsNotFoundError(d.ExtendVolume(ctx, replicatedVolume("v9", "thick", 1), 2)))

	d.SetFaults(Faults{ExtendVolume: errors.New("array busy")})
	assert.EqualError(t, d.ExtendVolume(ctx, vol, 50), "array busy")

	caps, err := d.GetCapabilities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, caps.Pools[0].AllocatedCapacityGB)
}

func TestFailoverHost(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	known := replicatedVolume("v1", "thick", 1)
	_, err := d.CreateVolume(ctx, known)
	require.NoError(t, err)
	missing := replicatedVolume("v2", "thick", 1)

	volumes := []*storage.Volume{known.SmartCopy(), missing.SmartCopy()}
	groups := []*storage.Group{{ID: "g1"}}
	original := []*storage.Volume{volumes[0].SmartCopy(), volumes[1].SmartCopy()}

	result, err := d.FailoverHost(ctx, volumes, "lvm-dr", groups)
	require.NoError(t, err)
	assert.Equal(t, "lvm-dr", result.ActiveBackendID)
	assert.Equal(t, "lvm-dr", d.ActiveBackendID())

	expected := []storage.VolumeUpdate{
		{VolumeID: "v1", Updates: storage.VolumeFields{ReplicationStatus: storage.Ptr(storage.ReplicationFailedOver)}},
		{VolumeID: "v2", Updates: storage.VolumeFields{Status: storage.Ptr(storage.VolumeStatusError)}},
	}
	if diff := cmp.Diff(expected, result.VolumeUpdates); diff != "" {
		t.Errorf("unexpected volume updates (-want +got):\n%s", diff)
	}
	require.Len(t, result.GroupUpdates, 1)
	assert.Equal(t, storage.ReplicationFailedOver, *result.GroupUpdates[0].Updates.ReplicationStatus)
	if diff := cmp.Diff(original, volumes); diff != "" {
		t.Errorf("inputs were modified (-want +got):\n%s", diff)
	}

	result, err = d.FailoverHost(ctx, volumes[:1], config.FailbackTarget, nil)
	require.NoError(t, err)
	assert.Equal(t, config.FailbackTarget, result.ActiveBackendID)
	assert.Equal(t, storage.ReplicationEnabled, *result.VolumeUpdates[0].Updates.ReplicationStatus)
	assert.Empty(t, d.ActiveBackendID())
}

func TestFailoverHostDefaultTarget(t *testing.T) {
	d := newTestDriver(t, nil)

	result, err := d.FailoverHost(context.Background(), nil, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "lvm-dr", result.ActiveBackendID)
	assert.Equal(t, "lvm-dr", d.ActiveBackendID())
}

func TestFailoverHostErrors(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)

	_, err := d.FailoverHost(ctx, nil, "elsewhere", nil)
	assert.True(t, errors.IsInvalidReplicationTargetError(err))

	noTargets := NewDriver()
	require.NoError(t, noTargets.Initialize(ctx, &config.BackendConfig{Name: "solo", Host: "node2", Driver: "fake"}))
	_, err = noTargets.FailoverHost(ctx, nil, "", nil)
	assert.True(t, errors.IsInvalidReplicationTargetError(err))

	d.SetFaults(Faults{FailoverHost: errors.New("replication link down")})
	_, err = d.FailoverHost(ctx, nil, "lvm-dr", nil)
	assert.EqualError(t, err, "replication link down")
	assert.Empty(t, d.ActiveBackendID())
}

func TestFailoverHostInjectedUpdates(t *testing.T) {
	updates := []storage.VolumeUpdate{
		{VolumeID: "v1", Updates: storage.VolumeFields{Status: storage.Ptr(storage.VolumeStatusError)}},
	}
	d := newTestDriver(t, nil)
	d.SetFaults(Faults{VolumeUpdates: updates})

	result, err := d.FailoverHost(context.Background(), []*storage.Volume{{ID: "v1"}, {ID: "v2"}}, "lvm-dr", nil)
	require.NoError(t, err)
	assert.Equal(t, updates, result.VolumeUpdates)
	assert.Empty(t, result.GroupUpdates)
}

func TestFreezeThawAndFailoverCompleted(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)

	require.NoError(t, d.Freeze(ctx))
	assert.True(t, d.Frozen())
	require.NoError(t, d.Thaw(ctx))
	assert.False(t, d.Frozen())

	d.SetFaults(Faults{Thaw: errors.New("stuck"), FailoverCompleted: errors.New("peer gone")})
	require.NoError(t, d.Freeze(ctx))
	assert.Error(t, d.Thaw(ctx))
	assert.True(t, d.Frozen())
	assert.Error(t, d.FailoverCompleted(ctx, "lvm-dr"))

	d.SetFaults(Faults{})
	require.NoError(t, d.FailoverCompleted(ctx, "lvm-dr"))
	assert.Equal(t, "lvm-dr", d.ActiveBackendID())
	require.NoError(t, d.FailoverCompleted(ctx, config.FailbackTarget))
	assert.Empty(t, d.ActiveBackendID())
}

func TestGetManageableVolumes(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	for _, id := range []string{"a", "b"} {
		_, err := d.CreateVolume(ctx, replicatedVolume(id, "thick", 5))
		require.NoError(t, err)
	}
	d.AddUnmanagedVolume("legacy-1", 20)

	entries, err := d.GetManageableVolumes(ctx, []*storage.Volume{{ID: "a"}},
		&storage.ManageableListOptions{SortKeys: []string{"size"}, SortDirs: []string{"desc"}})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "legacy-1", entries[0].Reference)
	assert.True(t, entries[0].SafeToManage)

	byRef := map[string]*storage.ManageableVolume{}
	for _, e := range entries {
		byRef[e.Reference] = e
	}
	assert.False(t, byRef["volume-a"].SafeToManage)
	assert.Equal(t, "a", byRef["volume-a"].ExistingID)
	assert.True(t, byRef["volume-b"].SafeToManage)

	page, err := d.GetManageableVolumes(ctx, nil, &storage.ManageableListOptions{Marker: "legacy-1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "volume-a", page[0].Reference)

	_, err = d.GetManageableVolumes(ctx, nil, &storage.ManageableListOptions{SortKeys: []string{"color"}})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestGetManageableSnapshots(t *testing.T) {
	ctx := context.Background()
	d := newTestDriver(t, nil)
	vol := replicatedVolume("v1", "thick", 5)
	_, err := d.CreateVolume(ctx, vol)
	require.NoError(t, err)
	require.NoError(t, d.CreateSnapshot(ctx, &storage.Snapshot{ID: "s1"}, vol))
	require.NoError(t, d.CreateSnapshot(ctx, &storage.Snapshot{ID: "s2"}, vol))

	entries, err := d.GetManageableSnapshots(ctx, []*storage.Snapshot{{ID: "s2"}}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "snapshot-s1", entries[0].Reference)
	assert.Equal(t, "volume-v1", entries[0].SourceReference)
	assert.True(t, entries[0].SafeToManage)
	assert.Equal(t, "s2", entries[1].ExistingID)
}

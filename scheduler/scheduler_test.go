// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/message"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

type fixture struct {
	ctx       context.Context
	store     *persistentstore.InMemoryClient
	transport *rpc.Transport
	manager   *Manager
	opts      *config.Options
}

func newFixture(t *testing.T, configure ...func(*config.Options)) *fixture {
	t.Helper()
	opts := config.DefaultOptions()
	opts.Scheduler.DriverInitWaitTime = 0
	opts.RPC.ResponseTimeout = 5 * time.Second
	opts.RPC.Workers = 4
	for _, fn := range configure {
		fn(opts)
	}

	transport, err := rpc.NewTransport(opts.RPC)
	require.NoError(t, err)
	require.NoError(t, transport.Start(context.Background()))
	t.Cleanup(func() { _ = transport.Stop(context.Background()) })

	volumeAPI, err := rpcapi.NewVolumeAPI(transport)
	require.NoError(t, err)

	store := persistentstore.NewInMemoryClient()
	m, err := NewManager("sched1", store, message.NewAPI(store, time.Hour), volumeAPI, opts)
	require.NoError(t, err)

	return &fixture{
		ctx: GenerateRequestContext(context.Background(), "", ContextSourceInternal, WorkflowSchedulerSchedule,
			LogLayerScheduler),
		store:     store,
		transport: transport,
		manager:   m,
		opts:      opts,
	}
}

func pool(name string, total, free float64) storage.PoolCapabilities {
	return storage.PoolCapabilities{
		PoolName:                 name,
		TotalCapacityGB:          total,
		FreeCapacityGB:           free,
		ThickProvisioningSupport: true,
		MaxOverSubscriptionRatio: 1,
	}
}

// addBackend registers an up volume service and reports its pools.
func (f *fixture) addBackend(t *testing.T, host string, pools ...storage.PoolCapabilities) *storage.Service {
	t.Helper()
	svc := &storage.Service{
		ID:               host,
		Host:             host,
		Binary:           config.VolumeBinary,
		AvailabilityZone: "nova",
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, f.store.AddService(f.ctx, svc))
	f.report(host, time.Now(), pools...)
	return svc
}

func (f *fixture) report(host string, at time.Time, pools ...storage.PoolCapabilities) bool {
	return f.manager.hostManager.UpdateServiceCapabilities(f.ctx, &rpcapi.CapabilitiesReport{
		ServiceName:  config.VolumeBinary,
		Host:         host,
		Capabilities: &storage.Capabilities{BackendName: storage.ExtractHost(host, storage.HostLevelBackend, false), Pools: pools},
		Timestamp:    at,
	})
}

func (f *fixture) addVolume(t *testing.T, vol *storage.Volume) {
	t.Helper()
	require.NoError(t, f.store.AddVolume(f.ctx, vol))
}

func (f *fixture) volume(t *testing.T, id string) *storage.Volume {
	t.Helper()
	vol, err := f.store.GetVolume(f.ctx, id)
	require.NoError(t, err)
	return vol
}

func (f *fixture) messages(t *testing.T, volumeID string) []*storage.Message {
	t.Helper()
	msgs, err := f.store.GetMessages(f.ctx, &persistentstore.MessageFilter{ResourceUUID: volumeID})
	require.NoError(t, err)
	return msgs
}

// recordVolumeCasts registers a volume server that forwards every cast it gets.
func (f *fixture) recordVolumeCasts(t *testing.T, host string, methods ...string) chan string {
	t.Helper()
	received := make(chan string, 16)
	endpoint := rpc.Endpoint{}
	for _, method := range methods {
		method := method
		endpoint[method] = func(context.Context, json.RawMessage) (any, error) {
			received <- method
			return nil, nil
		}
	}
	require.NoError(t, f.transport.Register(f.ctx, rpc.Target{Topic: config.VolumeTopic, Server: host},
		config.VolumeRPCAPIVersion, endpoint))
	return received
}

func TestScheduleCreateVolumePicksMostFreeCapacity(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 40), pool("b", 100, 80))
	f.addBackend(t, "node2@ceph", pool("c", 100, 60))

	spec := &storage.RequestSpec{VolumeID: "v1", Size: 10}
	props := &storage.FilterProperties{}
	chosen, err := f.manager.driver.ScheduleCreateVolume(f.ctx, spec, props)
	require.NoError(t, err)

	assert.Equal(t, "node1@lvm#b", chosen.Pool.Host)
	assert.Equal(t, 70.0, chosen.Pool.FreeCapacityGB)
	assert.Equal(t, 1, chosen.Pool.TotalVolumes)
	require.NotNil(t, props.Retry)
	assert.Equal(t, 1, props.Retry.NumAttempts)
	assert.Equal(t, []string{"node1@lvm#b"}, props.Retry.Backends)
}

func TestScheduleCreateVolumeBreaksTiesByHost(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node2@lvm", pool("a", 100, 50))
	f.addBackend(t, "node1@lvm", pool("b", 100, 50), pool("a", 100, 50))

	chosen, err := f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm#a", chosen.Pool.Host)
}

func TestScheduleCreateVolumeSpreadsConsecutivePlacements(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50))
	f.addBackend(t, "node2@lvm", pool("a", 100, 45))

	hosts := make([]string, 0, 3)
	for _, id := range []string{"v1", "v2", "v3"} {
		chosen, err := f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: id, Size: 10}, nil)
		require.NoError(t, err)
		hosts = append(hosts, chosen.Pool.Host)
	}
	// Each placement consumes capacity, so the emptier pool wins the next one.
	assert.Equal(t, []string{"node1@lvm#a", "node2@lvm#a", "node1@lvm#a"}, hosts)
}

func TestScheduleCreateVolumeRetryLimit(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50), pool("b", 100, 50))

	props := &storage.FilterProperties{Retry: &storage.RetryInfo{
		NumAttempts: 1,
		Backends:    []string{"node1@lvm#a"},
		Exception:   "pool 100% full (%d LUNs)",
	}}
	chosen, err := f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 1}, props)
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm#b", chosen.Pool.Host, "pools already tried are skipped")

	props.Retry.NumAttempts = f.opts.Scheduler.MaxAttempts
	_, err = f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 1}, props)
	require.Error(t, err)
	assert.True(t, errors.IsNoValidBackendError(err))
	assert.Contains(t, err.Error(), "last error: pool 100% full (%d LUNs)")
}

func TestScheduleCreateVolumeSkipsUnavailableServices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*storage.Service)
	}{
		{"disabled", func(s *storage.Service) { s.Disabled = true }},
		{"frozen", func(s *storage.Service) { s.Frozen = true }},
		{"down", func(s *storage.Service) { s.UpdatedAt = time.Now().Add(-time.Hour) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.addBackend(t, "node1@lvm", pool("a", 100, 90))
			f.addBackend(t, "node2@lvm", pool("a", 100, 10))

			test.mutate(svc)
			require.NoError(t, f.store.UpdateService(f.ctx, svc))

			chosen, err := f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 1}, nil)
			require.NoError(t, err)
			assert.Equal(t, "node2@lvm#a", chosen.Pool.Host)
		})
	}
}

func TestScheduleCreateVolumeIgnoresServicesWithoutReports(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddService(f.ctx, &storage.Service{
		Host: "node1@lvm", Binary: config.VolumeBinary, UpdatedAt: time.Now(),
	}))

	_, err := f.manager.driver.ScheduleCreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 1}, nil)
	assert.True(t, errors.IsNoValidBackendError(err))
	assert.Equal(t, []string{"node1@lvm"}, f.manager.hostManager.BackendsWithoutCapabilities())
	assert.False(t, f.manager.IsFirstReceive(f.ctx))
}

func TestBackendPassesFilters(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 20), pool("b", 100, 60))
	f.addBackend(t, "node2@lvm", pool("a", 100, 90))

	spec := &storage.RequestSpec{VolumeID: "v1", Size: 10}

	p, err := f.manager.driver.BackendPassesFilters(f.ctx, "node1@lvm", spec, nil)
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm#b", p.Host, "backend level picks the best pool of that backend")

	p, err = f.manager.driver.BackendPassesFilters(f.ctx, "node1@lvm#a", spec, nil)
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm#a", p.Host)
	assert.Equal(t, 10.0, p.FreeCapacityGB)

	_, err = f.manager.driver.BackendPassesFilters(f.ctx, "node1@lvm#a", &storage.RequestSpec{VolumeID: "v1", Size: 50}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNoValidBackendError(err))
	assert.Contains(t, err.Error(), "cannot place volume v1 on node1@lvm#a")

	_, err = f.manager.driver.BackendPassesFilters(f.ctx, "node3@lvm", spec, nil)
	assert.True(t, errors.IsNoValidBackendError(err))
}

func TestHostManagerDetectsChangedReports(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	assert.True(t, f.report("node1@lvm", now, pool("a", 100, 50)))
	assert.False(t, f.report("node1@lvm", now.Add(time.Second), pool("a", 100, 50)))
	assert.True(t, f.report("node1@lvm", now.Add(2*time.Second), pool("a", 100, 49)))

	ignored := f.manager.hostManager.UpdateServiceCapabilities(f.ctx, &rpcapi.CapabilitiesReport{
		ServiceName:  config.SchedulerBinary,
		Host:         "sched2",
		Capabilities: &storage.Capabilities{},
	})
	assert.False(t, ignored)
}

func TestHostManagerKeepsConsumptionUntilNewerReport(t *testing.T) {
	f := newFixture(t)
	reportedAt := time.Now().Add(-time.Minute)
	f.addBackend(t, "node1@lvm")
	f.report("node1@lvm", reportedAt, pool("a", 100, 50))

	pools, err := f.manager.hostManager.GetAllBackendStates(f.ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	f.manager.hostManager.ConsumeFromVolume(pools[0], 10)

	// A repeated report with the same timestamp does not reset consumed capacity.
	f.report("node1@lvm", reportedAt, pool("a", 100, 50))
	pools, err = f.manager.hostManager.GetAllBackendStates(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, pools[0].FreeCapacityGB)

	f.report("node1@lvm", reportedAt.Add(time.Second), pool("a", 100, 45))
	pools, err = f.manager.hostManager.GetAllBackendStates(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 45.0, pools[0].FreeCapacityGB)
	assert.Equal(t, 0, pools[0].TotalVolumes)
}

func TestGetPools(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50), pool("", 10, 5))
	f.addBackend(t, "node2@ceph", pool("c", 100, 60))

	infos, err := f.manager.getPools(f.ctx, &rpcapi.GetPoolsArgs{})
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"node1@lvm#_pool0", "node1@lvm#a", "node2@ceph#c"}, names)

	infos, err = f.manager.getPools(f.ctx, &rpcapi.GetPoolsArgs{Backend: "node2@ceph"})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "node2@ceph", infos[0].BackendName)
	assert.Equal(t, "60", infos[0].Attributes["free_capacity_gb"])

	_, err = f.manager.getPools(f.ctx, &rpcapi.GetPoolsArgs{Backend: "node9@x"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSchedulerState(t *testing.T) {
	start := time.Now()

	ready := NewSchedulerState(start, 0)
	assert.True(t, ready.IsReady())
	assert.NoError(t, ready.WaitReady(context.Background()))

	s := NewSchedulerState(start, time.Hour)
	assert.False(t, s.IsReady())
	assert.False(t, s.PastDeadline(start))
	assert.True(t, s.PastDeadline(start.Add(time.Hour)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, s.WaitReady(ctx))

	done := make(chan error, 1)
	go func() { done <- s.WaitReady(context.Background()) }()
	s.MarkReady()
	s.MarkReady()
	assert.NoError(t, <-done)

	expiring := NewSchedulerState(time.Now(), 10*time.Millisecond)
	assert.NoError(t, expiring.WaitReady(context.Background()))
	assert.True(t, expiring.IsReady())
}

func TestCreateVolumeWithoutValidBackend(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 5))
	f.addVolume(t, &storage.Volume{ID: "v1", Size: 10, Status: storage.VolumeStatusCreating})

	err := f.manager.createVolume(f.ctx, &rpcapi.CreateVolumeArgs{
		VolumeID:    "v1",
		RequestSpec: &storage.RequestSpec{VolumeID: "v1", Size: 10},
	})
	require.Error(t, err)
	assert.True(t, errors.IsNoValidBackendError(err))

	assert.Equal(t, storage.VolumeStatusError, f.volume(t, "v1").Status)
	msgs := f.messages(t, "v1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "v1", msgs[0].ResourceUUID)
	assert.Equal(t, storage.ActionScheduleAllocateVolume, msgs[0].Action)
	assert.Equal(t, storage.DetailNoValidBackend, msgs[0].Detail)
}

func TestCreateVolumeCastsToChosenBackend(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50))
	received := f.recordVolumeCasts(t, "node1@lvm", rpcapi.MethodCreateVolume)
	require.NoError(t, f.manager.Register(f.ctx, f.transport))
	f.addVolume(t, &storage.Volume{ID: "v1", Size: 10, Status: storage.VolumeStatusCreating})

	schedulerAPI, err := rpcapi.NewSchedulerAPI(f.transport)
	require.NoError(t, err)
	require.NoError(t, schedulerAPI.CreateVolume(f.ctx, &storage.RequestSpec{VolumeID: "v1", Size: 10}, nil))

	select {
	case method := <-received:
		assert.Equal(t, rpcapi.MethodCreateVolume, method)
	case <-time.After(5 * time.Second):
		t.Fatal("volume service never received create_volume")
	}

	vol := f.volume(t, "v1")
	assert.Equal(t, "node1@lvm#a", vol.Host)
	assert.Equal(t, "nova", vol.AvailabilityZone)
	assert.Equal(t, storage.VolumeStatusCreating, vol.Status)
	assert.Empty(t, f.messages(t, "v1"))
}

func TestValidateBackendRollback(t *testing.T) {
	tests := []struct {
		name     string
		volume   *storage.Volume
		run      func(f *fixture) error
		expected func(t *testing.T, v *storage.Volume)
		action   storage.MessageAction
	}{
		{
			name: "extend",
			volume: &storage.Volume{
				ID: "v1", Size: 10, Host: "node1@lvm#a",
				Status: storage.VolumeStatusExtending, PreviousStatus: storage.VolumeStatusInUse,
			},
			run: func(f *fixture) error {
				return f.manager.extendVolume(f.ctx, &rpcapi.ExtendVolumeArgs{VolumeID: "v1", NewSize: 100})
			},
			expected: func(t *testing.T, v *storage.Volume) {
				assert.Equal(t, storage.VolumeStatusInUse, v.Status)
				assert.Empty(t, v.PreviousStatus)
			},
			action: storage.ActionExtendVolume,
		},
		{
			name: "migrate",
			volume: &storage.Volume{
				ID: "v1", Size: 10, Host: "node1@lvm#a", MigrationStatus: storage.MigrationStatusStarting,
				Status: storage.VolumeStatusMaintenance, PreviousStatus: storage.VolumeStatusAvailable,
			},
			run: func(f *fixture) error {
				return f.manager.migrateVolume(f.ctx, &rpcapi.MigrateVolumeArgs{VolumeID: "v1", DestHost: "node9@lvm"})
			},
			expected: func(t *testing.T, v *storage.Volume) {
				assert.Equal(t, storage.MigrationStatusError, v.MigrationStatus)
				assert.Equal(t, storage.VolumeStatusAvailable, v.Status)
			},
			action: storage.ActionMigrateVolume,
		},
		{
			name: "retype",
			volume: &storage.Volume{
				ID: "v1", Size: 10, Host: "node1@lvm#a",
				Status: storage.VolumeStatusRetyping, PreviousStatus: storage.VolumeStatusAvailable,
			},
			run: func(f *fixture) error {
				return f.manager.retypeVolume(f.ctx, &rpcapi.RetypeVolumeArgs{
					VolumeID: "v1",
					NewType: &storage.VolumeType{Name: "fast", ExtraSpecs: map[string]string{
						"volume_backend_name": "ceph",
					}},
				})
			},
			expected: func(t *testing.T, v *storage.Volume) {
				assert.Equal(t, storage.VolumeStatusAvailable, v.Status)
				assert.Empty(t, v.PreviousStatus)
			},
			action: storage.ActionRetypeVolume,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(t)
			f.addBackend(t, "node1@lvm", pool("a", 100, 20))
			f.addVolume(t, test.volume)

			err := test.run(f)
			require.Error(t, err)
			assert.True(t, errors.IsNoValidBackendError(err))

			test.expected(t, f.volume(t, "v1"))
			msgs := f.messages(t, "v1")
			require.Len(t, msgs, 1)
			assert.Equal(t, test.action, msgs[0].Action)
		})
	}
}

func TestValidateBackendForwards(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50))
	f.addBackend(t, "node2@lvm", pool("a", 100, 50))
	received := f.recordVolumeCasts(t, "node1@lvm",
		rpcapi.MethodExtendVolume, rpcapi.MethodMigrateVolume, rpcapi.MethodRetypeVolume)
	f.addVolume(t, &storage.Volume{
		ID: "v1", Size: 10, Host: "node1@lvm#a",
		Status: storage.VolumeStatusExtending, PreviousStatus: storage.VolumeStatusAvailable,
	})

	require.NoError(t, f.manager.extendVolume(f.ctx, &rpcapi.ExtendVolumeArgs{VolumeID: "v1", NewSize: 20}))
	require.NoError(t, f.manager.migrateVolume(f.ctx, &rpcapi.MigrateVolumeArgs{VolumeID: "v1", DestHost: "node2@lvm"}))
	require.NoError(t, f.manager.retypeVolume(f.ctx, &rpcapi.RetypeVolumeArgs{
		VolumeID: "v1", NewType: &storage.VolumeType{Name: "plain"},
	}))

	f.transport.Wait()
	close(received)
	methods := make([]string, 0, 3)
	for method := range received {
		methods = append(methods, method)
	}
	assert.Equal(t, []string{rpcapi.MethodExtendVolume, rpcapi.MethodMigrateVolume, rpcapi.MethodRetypeVolume},
		methods)
	assert.Empty(t, f.messages(t, "v1"))
}

func TestMigrateExcludesCurrentBackend(t *testing.T) {
	f := newFixture(t)
	f.addBackend(t, "node1@lvm", pool("a", 100, 50))
	f.addVolume(t, &storage.Volume{ID: "v1", Size: 10, Host: "node1@lvm#a", Status: storage.VolumeStatusMaintenance})

	err := f.manager.migrateVolume(f.ctx, &rpcapi.MigrateVolumeArgs{VolumeID: "v1", DestHost: "node1@lvm"})
	assert.True(t, errors.IsNoValidBackendError(err))
}

func TestInitHostWithRPC(t *testing.T) {
	f := newFixture(t, func(opts *config.Options) {
		opts.Scheduler.DriverInitWaitTime = time.Hour
		opts.Scheduler.PollInterval = 10 * time.Millisecond
	})
	require.NoError(t, f.manager.Register(f.ctx, f.transport))

	svc := &storage.Service{Host: "node1@lvm", Binary: config.VolumeBinary, UpdatedAt: time.Now()}
	require.NoError(t, f.store.AddService(f.ctx, svc))

	schedulerAPI, err := rpcapi.NewSchedulerAPI(f.transport)
	require.NoError(t, err)
	endpoint := rpc.Endpoint{
		rpcapi.MethodPublishServiceCapabilities: rpc.HandleCast(func(ctx context.Context, _ *rpc.Empty) error {
			return schedulerAPI.UpdateServiceCapabilities(ctx, svc, &storage.Capabilities{
				BackendName: "lvm",
				Pools:       []storage.PoolCapabilities{pool("a", 100, 50)},
			})
		}),
	}
	require.NoError(t, f.transport.Register(f.ctx, rpc.Target{Topic: config.VolumeTopic, Server: svc.Host},
		config.VolumeRPCAPIVersion, endpoint))

	assert.False(t, f.manager.IsReady())

	ctx, cancel := context.WithTimeout(f.ctx, 5*time.Second)
	defer cancel()
	f.manager.InitHostWithRPC(ctx)

	assert.True(t, f.manager.IsReady())
	assert.True(t, f.manager.IsFirstReceive(f.ctx))
	assert.Empty(t, f.manager.hostManager.BackendsWithoutCapabilities())
}

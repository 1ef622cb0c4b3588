// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpcapi

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/rpc"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

type received struct {
	server string
	method string
	args   json.RawMessage
}

type recorder struct {
	mutex sync.Mutex
	calls []received
}

func (r *recorder) endpoint(server string, methods ...string) rpc.Endpoint {
	endpoint := rpc.Endpoint{}
	for _, method := range methods {
		method := method
		endpoint[method] = func(_ context.Context, args json.RawMessage) (any, error) {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.calls = append(r.calls, received{server: server, method: method, args: args})
			return nil, nil
		}
	}
	return endpoint
}

func (r *recorder) all() []received {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]received(nil), r.calls...)
}

func newTransport(t *testing.T) *rpc.Transport {
	t.Helper()
	tr, err := rpc.NewTransport(config.RPCOptions{ResponseTimeout: time.Second, Workers: 4})
	require.NoError(t, err)
	require.NoError(t, tr.Start(context.Background()))
	t.Cleanup(func() { _ = tr.Stop(context.Background()) })
	return tr
}

func TestVolumeAPI_Routing(t *testing.T) {
	ctx := context.Background()
	tr := newTransport(t)
	rec := &recorder{}
	methods := []string{
		MethodCreateVolume, MethodDeleteVolume, MethodExtendVolume, MethodMigrateVolume, MethodRetypeVolume,
		MethodCreateSnapshot, MethodDeleteSnapshot, MethodFailoverHost, MethodFailover, MethodFailoverCompleted,
		MethodFreezeHost, MethodPublishServiceCapabilities,
	}
	require.NoError(t, tr.Register(ctx, rpc.Target{Topic: config.VolumeTopic, Server: "node1@lvm"},
		config.VolumeRPCAPIVersion, rec.endpoint("node1@lvm", methods...)))
	require.NoError(t, tr.Register(ctx, rpc.Target{Topic: config.VolumeTopic, Server: "node2@lvm", Cluster: "c1@lvm"},
		config.VolumeRPCAPIVersion, rec.endpoint("node2@lvm", methods...)))

	api, err := NewVolumeAPI(tr)
	require.NoError(t, err)

	standalone := &storage.Volume{ID: "v1", Host: "node1@lvm#pool1"}
	clustered := &storage.Volume{ID: "v2", Host: "node2@lvm#pool1", ClusterName: "c1@lvm"}
	svc1 := &storage.Service{Host: "node1@lvm", Binary: config.VolumeBinary}
	svc2 := &storage.Service{Host: "node2@lvm", Binary: config.VolumeBinary, ClusterName: "c1@lvm"}

	require.NoError(t, api.CreateVolume(ctx, standalone, &storage.RequestSpec{VolumeID: "v1", Size: 1}, nil))
	require.NoError(t, api.ExtendVolume(ctx, clustered, 20))
	require.NoError(t, api.FailoverHost(ctx, svc1, "rep1"))
	require.NoError(t, api.Failover(ctx, svc2, "rep1"))
	state := storage.ReplicationState{
		ReplicationStatus: storage.ReplicationFailedOver,
		ActiveBackendID:   "rep1",
		Disabled:          true,
		DisabledReason:    config.DisabledReasonFailedOver,
	}
	require.NoError(t, api.FailoverCompleted(ctx, svc2, state))
	require.NoError(t, api.FreezeHost(ctx, svc1))
	tr.Wait()

	calls := rec.all()
	require.Len(t, calls, 6)
	route := map[string]string{}
	for _, c := range calls {
		route[c.method] = c.server
	}
	assert.Equal(t, map[string]string{
		MethodCreateVolume:      "node1@lvm",
		MethodExtendVolume:      "node2@lvm",
		MethodFailoverHost:      "node1@lvm",
		MethodFailover:          "node2@lvm",
		MethodFailoverCompleted: "node2@lvm",
		MethodFreezeHost:        "node1@lvm",
	}, route)

	for _, c := range calls {
		switch c.method {
		case MethodExtendVolume:
			var args ExtendVolumeArgs
			require.NoError(t, json.Unmarshal(c.args, &args))
			assert.Equal(t, ExtendVolumeArgs{VolumeID: "v2", NewSize: 20}, args)
		case MethodFailoverCompleted:
			var args FailoverCompletedArgs
			require.NoError(t, json.Unmarshal(c.args, &args))
			assert.Equal(t, FailoverCompletedArgs{State: state}, args)
		}
	}

	require.NoError(t, api.PublishServiceCapabilities(ctx))
	tr.Wait()
	assert.Len(t, rec.all(), 8)
}

func TestVolumeAPI_ClusterFailoverNeedsNewPeers(t *testing.T) {
	ctx := context.Background()
	tr := newTransport(t)
	rec := &recorder{}
	require.NoError(t, tr.Register(ctx, rpc.Target{Topic: config.VolumeTopic, Server: "old@lvm", Cluster: "c1@lvm"},
		"3.4", rec.endpoint("old@lvm", MethodFailover)))

	api, err := NewVolumeAPI(tr)
	require.NoError(t, err)
	assert.Equal(t, "3.4", api.Negotiate(ctx))
	assert.False(t, api.CanSendVersion(config.ClusterFailoverRPCVersion))

	err = api.Failover(ctx, &storage.Service{Host: "old@lvm", ClusterName: "c1@lvm"}, "rep1")
	assert.True(t, errors.IsUnsupportedError(err))
}

func TestVolumeAPI_Queries(t *testing.T) {
	ctx := context.Background()
	tr := newTransport(t)

	caps := &storage.Capabilities{
		BackendName: "lvm",
		Pools:       []storage.PoolCapabilities{{PoolName: "pool1", TotalCapacityGB: 100, FreeCapacityGB: 40}},
	}
	require.NoError(t, tr.Register(ctx, rpc.Target{Topic: config.VolumeTopic, Server: "node1@lvm"},
		config.VolumeRPCAPIVersion, rpc.Endpoint{
			MethodThawHost: rpc.Handle(func(context.Context, *rpc.Empty) (bool, error) {
				return true, nil
			}),
			MethodGetCapabilities: rpc.Handle(func(context.Context, *rpc.Empty) (*storage.Capabilities, error) {
				return caps, nil
			}),
			MethodGetManageableVolumes: rpc.Handle(
				func(_ context.Context, args *ManageableArgs) ([]*storage.ManageableVolume, error) {
					return storage.PaginateManageable([]*storage.ManageableVolume{
						{Reference: "b", Size: 2}, {Reference: "a", Size: 1},
					}, args.Options)
				}),
			MethodGetManageableSnapshots: rpc.Handle(
				func(context.Context, *ManageableArgs) ([]*storage.ManageableSnapshot, error) {
					return nil, errors.NotFoundError("backend node1@lvm has no snapshots")
				}),
			MethodAcceptMigration: rpc.Handle(
				func(_ context.Context, args *AcceptMigrationArgs) (*storage.VolumeFields, error) {
					return &storage.VolumeFields{Host: storage.Ptr(args.DestHost)}, nil
				}),
		}))

	api, err := NewVolumeAPI(tr)
	require.NoError(t, err)
	svc := &storage.Service{Host: "node1@lvm"}

	thawed, err := api.ThawHost(ctx, svc)
	require.NoError(t, err)
	assert.True(t, thawed)

	got, err := api.GetCapabilities(ctx, svc)
	require.NoError(t, err)
	if diff := cmp.Diff(caps, got); diff != "" {
		t.Errorf("capabilities mismatch (-want +got):\n%s", diff)
	}

	volumes, err := api.GetManageableVolumes(ctx, svc, &storage.ManageableListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "a", volumes[0].Reference)

	_, err = api.GetManageableSnapshots(ctx, svc, nil)
	assert.True(t, errors.IsNotFoundError(err))

	fields, err := api.AcceptMigration(ctx, &storage.Volume{ID: "v1", Host: "node9@lvm#a"}, "node1@lvm#pool1")
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm#pool1", *fields.Host)

	_, err = api.GetCapabilities(ctx, &storage.Service{Host: "node9@lvm"})
	assert.True(t, errors.IsServiceNotFoundError(err))
}

func TestSchedulerAPI(t *testing.T) {
	ctx := context.Background()
	tr := newTransport(t)
	rec := &recorder{}
	endpoint := rec.endpoint("sched", MethodCreateVolume, MethodExtendVolume, MethodMigrateVolume,
		MethodRetypeVolume, MethodUpdateServiceCapabilities, MethodNotifyServiceCapabilities)
	endpoint[MethodGetPools] = rpc.Handle(func(_ context.Context, args *GetPoolsArgs) ([]*storage.PoolInfo, error) {
		return []*storage.PoolInfo{{Name: args.Backend + "#pool1", BackendName: "lvm"}}, nil
	})
	require.NoError(t, tr.Register(ctx, rpc.Target{Topic: config.SchedulerTopic, Server: "sched"},
		config.SchedulerRPCAPIVersion, endpoint))

	api, err := NewSchedulerAPI(tr)
	require.NoError(t, err)
	assert.Equal(t, config.SchedulerRPCAPIVersion, api.Negotiate(ctx))

	vol := &storage.Volume{ID: "v1", Size: 10}
	spec := storage.NewRequestSpecForVolume(vol)
	require.NoError(t, api.CreateVolume(ctx, spec, &storage.FilterProperties{}))
	require.NoError(t, api.ExtendVolume(ctx, vol, 20, spec))
	require.NoError(t, api.MigrateVolume(ctx, vol, "node2@lvm", spec))
	require.NoError(t, api.RetypeVolume(ctx, vol, &storage.VolumeType{Name: "gold"}, spec))

	svc := &storage.Service{Host: "node1@lvm", Binary: config.VolumeBinary, ClusterName: "c1@lvm"}
	require.NoError(t, api.UpdateServiceCapabilities(ctx, svc, &storage.Capabilities{BackendName: "lvm"}))
	require.NoError(t, api.NotifyServiceCapabilities(ctx, svc, &storage.Capabilities{BackendName: "lvm"}))
	tr.Wait()

	calls := rec.all()
	require.Len(t, calls, 6)
	var report CapabilitiesReport
	require.NoError(t, json.Unmarshal(calls[4].args, &report))
	assert.Equal(t, MethodUpdateServiceCapabilities, calls[4].method)
	assert.Equal(t, config.VolumeBinary, report.ServiceName)
	assert.Equal(t, "node1@lvm", report.Host)
	assert.Equal(t, "c1@lvm", report.ClusterName)
	assert.Equal(t, "lvm", report.Capabilities.BackendName)
	assert.False(t, report.Timestamp.IsZero())

	var migrate MigrateVolumeArgs
	require.NoError(t, json.Unmarshal(calls[2].args, &migrate))
	assert.Equal(t, "node2@lvm", migrate.DestHost)
	assert.Equal(t, 10, migrate.RequestSpec.Size)

	pools, err := api.GetPools(ctx, "node1@lvm")
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "node1@lvm#pool1", pools[0].Name)
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/core"
	mockcore "github.com/openblock/blockd/mocks/mock_core"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

func newTestRouter(t *testing.T) (http.Handler, *mockcore.MockOrchestrator) {
	mockOrchestrator := mockcore.NewMockOrchestrator(gomock.NewController(t))
	orchestrator = mockOrchestrator
	return NewRouter(0, 0), mockOrchestrator
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	return w
}

func TestHTTPStatusCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not ready", errors.NotReadyError(), http.StatusServiceUnavailable},
		{"upgrade", errors.UnavailableDuringUpgradeError("failover"), http.StatusServiceUnavailable},
		{"bootstrap", errors.BootstrapError(errors.New("boom")), http.StatusInternalServerError},
		{"not found", errors.NotFoundError("volume v1"), http.StatusNotFound},
		{"service not found", errors.ServiceNotFoundError("node1@a"), http.StatusNotFound},
		{"unexpected status", errors.UnexpectedStatusError("volume busy"), http.StatusConflict},
		{"driver", errors.VolumeDriverError("array offline"), http.StatusBadGateway},
		{"timeout", errors.TimeoutError("no reply"), http.StatusBadGateway},
		{"invalid input", errors.InvalidInputError("bad size"), http.StatusBadRequest},
		{"invalid target", errors.InvalidReplicationTargetError("nope"), http.StatusBadRequest},
		{"no valid backend", errors.NoValidBackendError("none"), http.StatusBadRequest},
		{"unclassified", errors.New("odd"), http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, httpStatusCodeForError(test.err))
		})
	}

	assert.Equal(t, http.StatusCreated, httpStatusCodeForAdd(nil))
	assert.Equal(t, http.StatusAccepted, httpStatusCodeForAction(nil))
	assert.Equal(t, http.StatusOK, httpStatusCodeForDelete(nil))
}

func TestGetVersion(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().GetVersion(gomock.Any()).Return("26.10.0", nil)

	w := serve(router, http.MethodGet, config.VersionURL, "")

	require.Equal(t, http.StatusOK, w.Code)
	response := &GetVersionResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	assert.Equal(t, "26.10.0", response.Version)
	assert.Equal(t, config.OrchestratorAPIVersion, response.APIVersion)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().GetVersion(gomock.Any()).Return("26.10.0", nil)

	r := httptest.NewRequest(http.MethodGet, config.VersionURL, nil)
	r.Header.Set(RequestIDHeader, "req-1234")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, "req-1234", w.Header().Get(RequestIDHeader))
}

func TestReplicationActions(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		expect   func(o *mockcore.MockOrchestrator)
		expected int
	}{
		{
			name:   "failover service",
			target: config.ServiceURL + "/node1@a/failover",
			body:   `{"secondaryBackendID":"secondary"}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Failover(gomock.Any(), "node1@a", "", "secondary").Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "failback service with empty body",
			target: config.ServiceURL + "/node1@a/failover",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Failover(gomock.Any(), "node1@a", "", "").Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "failover unknown service",
			target: config.ServiceURL + "/node9@z/failover",
			body:   `{"secondaryBackendID":"secondary"}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Failover(gomock.Any(), "node9@z", "", "secondary").
					Return(errors.ServiceNotFoundError("no service node9@z"))
			},
			expected: http.StatusNotFound,
		},
		{
			name:   "failover cluster to invalid target",
			target: config.ClusterURL + "/c1@array/failover",
			body:   `{"secondaryBackendID":"elsewhere"}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Failover(gomock.Any(), "", "c1@array", "elsewhere").
					Return(errors.InvalidReplicationTargetError("elsewhere is not configured"))
			},
			expected: http.StatusBadRequest,
		},
		{
			name:     "failover with bad JSON",
			target:   config.ServiceURL + "/node1@a/failover",
			body:     `{"secondaryBackendID":`,
			expect:   func(o *mockcore.MockOrchestrator) {},
			expected: http.StatusBadRequest,
		},
		{
			name:   "freeze service",
			target: config.ServiceURL + "/node1@a/freeze",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Freeze(gomock.Any(), "node1@a", "").Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "freeze cluster",
			target: config.ClusterURL + "/c1@array/freeze",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Freeze(gomock.Any(), "", "c1@array").Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "thaw service",
			target: config.ServiceURL + "/node1@a/thaw",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Thaw(gomock.Any(), "node1@a", "").Return(nil)
			},
			expected: http.StatusOK,
		},
		{
			name:   "thaw cluster fails in driver",
			target: config.ClusterURL + "/c1@array/thaw",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Thaw(gomock.Any(), "", "c1@array").Return(errors.VolumeDriverError("thaw failed"))
			},
			expected: http.StatusBadGateway,
		},
		{
			name:   "not ready",
			target: config.ServiceURL + "/node1@a/freeze",
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().Freeze(gomock.Any(), "node1@a", "").Return(errors.NotReadyError())
			},
			expected: http.StatusServiceUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			router, o := newTestRouter(t)
			test.expect(o)

			w := serve(router, http.MethodPost, test.target, test.body)

			assert.Equal(t, test.expected, w.Code)
			response := &ReplicationActionResponse{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(response))
			assert.Equal(t, test.expected >= 300, response.Error != "")
		})
	}
}

func TestAddVolume(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, o := newTestRouter(t)
		o.EXPECT().CreateVolume(gomock.Any(), &core.VolumeCreateRequest{Name: "data", Size: 10, AvailabilityZone: "zone-a"}).
			Return(&storage.Volume{ID: "v1", Name: "data", Size: 10, Status: storage.VolumeStatusCreating}, nil)

		w := serve(router, http.MethodPost, config.VolumeURL, `{"name":"data","size":10,"availabilityZone":"zone-a"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		response := &AddVolumeResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		assert.Equal(t, "v1", response.Volume.ID)
		assert.Empty(t, response.Error)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := serve(router, http.MethodPost, config.VolumeURL, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejected", func(t *testing.T) {
		router, o := newTestRouter(t)
		o.EXPECT().CreateVolume(gomock.Any(), gomock.Any()).Return(nil, errors.InvalidInputError("size must be positive"))

		w := serve(router, http.MethodPost, config.VolumeURL, `{"name":"data","size":-1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := &AddVolumeResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		assert.Contains(t, response.Error, "size must be positive")
	})
}

func TestListVolumesFilter(t *testing.T) {
	router, o := newTestRouter(t)
	expected := &persistentstore.VolumeFilter{
		Host:        "node1@a",
		ClusterName: "c1",
		GroupID:     "g1",
		Statuses:    []storage.VolumeStatus{storage.VolumeStatusAvailable, storage.VolumeStatusError},
	}
	o.EXPECT().ListVolumes(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, filter *persistentstore.VolumeFilter) ([]*storage.Volume, error) {
			if diff := cmp.Diff(expected, filter); diff != "" {
				t.Errorf("unexpected filter (-want +got):\n%s", diff)
			}
			return []*storage.Volume{{ID: "v1"}, {ID: "v2"}}, nil
		})

	w := serve(router, http.MethodGet,
		config.VolumeURL+"?host=node1@a&cluster=c1&group=g1&status=available&status=error", "")

	require.Equal(t, http.StatusOK, w.Code)
	response := &ListVolumesResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	assert.Len(t, response.Volumes, 2)
}

func TestGetAndDeleteVolume(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().GetVolume(gomock.Any(), "v1").Return(&storage.Volume{ID: "v1"}, nil)
	o.EXPECT().GetVolume(gomock.Any(), "v2").Return(nil, errors.NotFoundError("volume v2 not found"))
	o.EXPECT().DeleteVolume(gomock.Any(), "v1").Return(nil)
	o.EXPECT().DeleteVolume(gomock.Any(), "v3").Return(errors.UnexpectedStatusError("volume v3 has snapshots"))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, config.VolumeURL+"/v1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, config.VolumeURL+"/v2", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, config.VolumeURL+"/v1", "").Code)

	w := serve(router, http.MethodDelete, config.VolumeURL+"/v3", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	response := &DeleteResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	assert.Contains(t, response.Error, "snapshots")
}

func TestVolumeActions(t *testing.T) {
	gold := &storage.VolumeType{Name: "gold", ExtraSpecs: map[string]string{"tier": "gold"}}

	tests := []struct {
		name     string
		target   string
		body     string
		expect   func(o *mockcore.MockOrchestrator)
		expected int
	}{
		{
			name:   "extend",
			target: config.VolumeURL + "/v1/extend",
			body:   `{"newSize":20}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().ExtendVolume(gomock.Any(), "v1", 20).Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "extend busy volume",
			target: config.VolumeURL + "/v1/extend",
			body:   `{"newSize":20}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().ExtendVolume(gomock.Any(), "v1", 20).Return(errors.UnexpectedStatusError("volume v1 is in-use"))
			},
			expected: http.StatusConflict,
		},
		{
			name:   "migrate",
			target: config.VolumeURL + "/v1/migrate",
			body:   `{"host":"node2@b#p"}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().MigrateVolume(gomock.Any(), "v1", "node2@b#p").Return(nil)
			},
			expected: http.StatusAccepted,
		},
		{
			name:   "retype",
			target: config.VolumeURL + "/v1/retype",
			body:   `{"volumeType":{"name":"gold","extraSpecs":{"tier":"gold"}}}`,
			expect: func(o *mockcore.MockOrchestrator) {
				o.EXPECT().RetypeVolume(gomock.Any(), "v1", gomock.Any()).DoAndReturn(
					func(_ interface{}, _ string, vt *storage.VolumeType) error {
						if diff := cmp.Diff(gold, vt); diff != "" {
							t.Errorf("unexpected volume type (-want +got):\n%s", diff)
						}
						return nil
					})
			},
			expected: http.StatusAccepted,
		},
		{
			name:     "bad body",
			target:   config.VolumeURL + "/v1/extend",
			body:     `{"newSize":"big"}`,
			expect:   func(o *mockcore.MockOrchestrator) {},
			expected: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			router, o := newTestRouter(t)
			test.expect(o)

			w := serve(router, http.MethodPost, test.target, test.body)

			assert.Equal(t, test.expected, w.Code)
			response := &VolumeActionResponse{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(response))
			assert.Equal(t, "v1", response.VolumeID)
		})
	}
}

func TestSnapshots(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().CreateSnapshot(gomock.Any(), "v1", "nightly").
		Return(&storage.Snapshot{ID: "s1", VolumeID: "v1", Name: "nightly"}, nil)
	o.EXPECT().ListSnapshots(gomock.Any(), "v1").Return([]*storage.Snapshot{{ID: "s1", VolumeID: "v1"}}, nil)
	o.EXPECT().DeleteSnapshot(gomock.Any(), "s1").Return(nil)

	w := serve(router, http.MethodPost, config.SnapshotURL, `{"volumeID":"v1","name":"nightly"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, http.MethodGet, config.SnapshotURL+"?volume=v1", "")
	require.Equal(t, http.StatusOK, w.Code)
	response := &ListSnapshotsResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	assert.Len(t, response.Snapshots, 1)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodDelete, config.SnapshotURL+"/s1", "").Code)
}

func TestListServices(t *testing.T) {
	t.Run("filtered", func(t *testing.T) {
		router, o := newTestRouter(t)
		disabled := true
		expected := &persistentstore.ServiceFilter{Binary: config.VolumeBinary, Disabled: &disabled}
		o.EXPECT().ListServices(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ interface{}, filter *persistentstore.ServiceFilter) ([]*storage.Service, error) {
				if diff := cmp.Diff(expected, filter); diff != "" {
					t.Errorf("unexpected filter (-want +got):\n%s", diff)
				}
				return []*storage.Service{{Host: "node1@a", Binary: config.VolumeBinary, Disabled: true}}, nil
			})

		w := serve(router, http.MethodGet, config.ServiceURL+"?binary="+config.VolumeBinary+"&disabled=true", "")

		require.Equal(t, http.StatusOK, w.Code)
		response := &ListServicesResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		require.Len(t, response.Services, 1)
		assert.Equal(t, "node1@a", response.Services[0].Host)
	})

	t.Run("invalid bool", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := serve(router, http.MethodGet, config.ServiceURL+"?frozen=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		router, o := newTestRouter(t)
		o.EXPECT().GetService(gomock.Any(), "node1@a").Return(&storage.Service{Host: "node1@a", Frozen: true}, nil)

		w := serve(router, http.MethodGet, config.ServiceURL+"/node1@a", "")

		require.Equal(t, http.StatusOK, w.Code)
		response := &GetServiceResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		assert.True(t, response.Service.Frozen)
	})
}

func TestListClustersAndGroups(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().ListClusters(gomock.Any()).Return([]*storage.Cluster{{Name: "c1@array"}}, nil)
	o.EXPECT().ListGroups(gomock.Any()).Return(nil, errors.NotReadyError())

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, config.ClusterURL, "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, config.GroupURL, "").Code)
}

func TestMessages(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().ListMessages(gomock.Any(), &persistentstore.MessageFilter{ResourceUUID: "v1", EventID: "VOLUME_VOLUME_001_002"}).
		Return([]*storage.Message{{ID: "m1"}}, nil)
	o.EXPECT().GetMessage(gomock.Any(), "m1").Return(&storage.Message{ID: "m1"}, nil)
	o.EXPECT().DeleteMessage(gomock.Any(), "m2").Return(errors.NotFoundError("message m2 not found"))

	w := serve(router, http.MethodGet, config.MessageURL+"?resource=v1&event=VOLUME_VOLUME_001_002", "")
	require.Equal(t, http.StatusOK, w.Code)
	response := &ListMessagesResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	assert.Len(t, response.Messages, 1)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, config.MessageURL+"/m1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, config.MessageURL+"/m2", "").Code)
}

func TestListPools(t *testing.T) {
	router, o := newTestRouter(t)
	o.EXPECT().GetPools(gomock.Any(), "node1@a").Return([]*storage.PoolInfo{{Name: "node1@a#p"}}, nil)

	w := serve(router, http.MethodGet, config.PoolURL+"?backend=node1@a", "")

	require.Equal(t, http.StatusOK, w.Code)
	response := &ListPoolsResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	require.Len(t, response.Pools, 1)
	assert.Equal(t, "node1@a#p", response.Pools[0].Name)
}

func TestListManageable(t *testing.T) {
	target := config.BackendURL + "/node1@a/manageable"

	t.Run("volumes", func(t *testing.T) {
		router, o := newTestRouter(t)
		expected := &storage.ManageableListOptions{
			Marker:   "volume-a",
			Limit:    2,
			Offset:   1,
			SortKeys: []string{"size", "reference"},
			SortDirs: []string{"desc"},
		}
		o.EXPECT().GetManageableVolumes(gomock.Any(), "node1@a", gomock.Any()).DoAndReturn(
			func(_ interface{}, _ string, opts *storage.ManageableListOptions) ([]*storage.ManageableVolume, error) {
				if diff := cmp.Diff(expected, opts); diff != "" {
					t.Errorf("unexpected options (-want +got):\n%s", diff)
				}
				return []*storage.ManageableVolume{{Reference: "volume-b", Size: 5, SafeToManage: true}}, nil
			})

		w := serve(router, http.MethodGet,
			target+"?marker=volume-a&limit=2&offset=1&sort_keys=size,reference&sort_dirs=desc", "")

		require.Equal(t, http.StatusOK, w.Code)
		response := &ListManageableResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		require.Len(t, response.Volumes, 1)
		assert.Equal(t, "volume-b", response.Volumes[0].Reference)
	})

	t.Run("snapshots", func(t *testing.T) {
		router, o := newTestRouter(t)
		o.EXPECT().GetManageableSnapshots(gomock.Any(), "node1@a", gomock.Any()).
			Return([]*storage.ManageableSnapshot{{Reference: "snapshot-s1"}}, nil)

		w := serve(router, http.MethodGet, target+"?type=snapshot", "")

		require.Equal(t, http.StatusOK, w.Code)
		response := &ListManageableResponse{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(response))
		assert.Len(t, response.Snapshots, 1)
	})

	for name, query := range map[string]string{
		"bad limit": "?limit=many",
		"bad type":  "?type=backup",
	} {
		t.Run(name, func(t *testing.T) {
			router, _ := newTestRouter(t)
			assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, target+query, "").Code)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	w := serve(router, http.MethodGet, config.MetricsURL, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

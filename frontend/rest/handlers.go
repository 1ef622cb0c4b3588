// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/core"
	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// httpStatusCodeForError maps the error taxonomy onto HTTP. Unclassified errors are the
// caller's fault unless the backend reported them.
func httpStatusCodeForError(err error) int {
	switch {
	case errors.IsNotReadyError(err), errors.IsUnavailableDuringUpgradeError(err):
		return http.StatusServiceUnavailable
	case errors.IsBootstrapError(err):
		return http.StatusInternalServerError
	case errors.IsNotFoundError(err), errors.IsServiceNotFoundError(err):
		return http.StatusNotFound
	case errors.IsUnexpectedStatusError(err):
		return http.StatusConflict
	case errors.IsVolumeDriverError(err), errors.IsTimeoutError(err), errors.IsConnectionError(err):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func httpStatusCodeForAdd(err error) int {
	if err == nil {
		return http.StatusCreated
	}
	return httpStatusCodeForError(err)
}

// httpStatusCodeForAction answers requests that complete in the background.
func httpStatusCodeForAction(err error) int {
	if err == nil {
		return http.StatusAccepted
	}
	return httpStatusCodeForError(err)
}

func httpStatusCodeForGetUpdateList(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return httpStatusCodeForError(err)
}

func httpStatusCodeForDelete(err error) int {
	return httpStatusCodeForGetUpdateList(err)
}

func writeHTTPResponse(ctx context.Context, w http.ResponseWriter, response interface{}, httpStatusCode int) {
	if _, err := json.Marshal(response); err != nil {
		Logc(ctx).WithFields(LogFields{
			"response": response,
			"error":    err,
		}).Error("Failed to marshal HTTP response.")
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		w.WriteHeader(httpStatusCode)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		Logc(ctx).WithFields(LogFields{
			"response": response,
			"error":    err,
		}).Error("Failed to write HTTP response.")
	}
}

func ListGeneric(
	w http.ResponseWriter,
	r *http.Request,
	response interface{},
	lister func(url.Values) int,
) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	httpStatusCode := lister(r.URL.Query())

	writeHTTPResponse(r.Context(), w, response, httpStatusCode)
}

func GetGeneric(
	w http.ResponseWriter,
	r *http.Request,
	varName string,
	response interface{},
	getter func(string) int,
) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	vars := mux.Vars(r)
	target := vars[varName]
	httpStatusCode := getter(target)

	writeHTTPResponse(r.Context(), w, response, httpStatusCode)
}

func GetGenericNoArg(
	w http.ResponseWriter,
	r *http.Request,
	response interface{},
	getter func() int,
) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	httpStatusCode := getter()

	writeHTTPResponse(r.Context(), w, response, httpStatusCode)
}

type httpResponse interface {
	setError(err error)
	isError() bool
	logSuccess(context.Context)
	logFailure(context.Context)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxRESTRequestSize))
	if err != nil {
		return nil, err
	}
	if err = r.Body.Close(); err != nil {
		return nil, err
	}
	return body, nil
}

// decodeBody unmarshals a JSON request body. An empty body leaves request untouched.
func decodeBody(body []byte, request interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, request); err != nil {
		return errors.InvalidInputError("invalid JSON: %v", err)
	}
	return nil
}

func AddGeneric(
	w http.ResponseWriter,
	r *http.Request,
	response httpResponse,
	adder func([]byte) int,
) {
	var httpStatusCode int

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	defer func() {
		if response.isError() {
			response.logFailure(r.Context())
		} else {
			response.logSuccess(r.Context())
		}

		writeHTTPResponse(r.Context(), w, response, httpStatusCode)
	}()

	body, err := readBody(r)
	if err != nil {
		response.setError(err)
		httpStatusCode = httpStatusCodeForAdd(err)
		return
	}
	httpStatusCode = adder(body)
}

func UpdateGeneric(
	w http.ResponseWriter,
	r *http.Request,
	varName string,
	response httpResponse,
	updater func(string, []byte) int,
) {
	var httpStatusCode int

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	defer func() {
		if response.isError() {
			response.logFailure(r.Context())
		} else {
			response.logSuccess(r.Context())
		}
		writeHTTPResponse(r.Context(), w, response, httpStatusCode)
	}()

	vars := mux.Vars(r)
	target := vars[varName]
	body, err := readBody(r)
	if err != nil {
		response.setError(err)
		httpStatusCode = httpStatusCodeForGetUpdateList(err)
		return
	}
	httpStatusCode = updater(target, body)
}

type DeleteResponse struct {
	Error string `json:"error,omitempty"`
}

type deleteFunc func(ctx context.Context, name string) error

func DeleteGeneric(
	w http.ResponseWriter,
	r *http.Request,
	deleter deleteFunc,
	varName string,
) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	response := DeleteResponse{}

	vars := mux.Vars(r)
	toDelete := vars[varName]

	err := deleter(r.Context(), toDelete)
	if err != nil {
		response.Error = err.Error()
	}
	httpStatusCode := httpStatusCodeForDelete(err)

	writeHTTPResponse(r.Context(), w, response, httpStatusCode)
}

type GetVersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion"`
	GoVersion  string `json:"goVersion"`
	Error      string `json:"error,omitempty"`
}

func GetVersion(w http.ResponseWriter, r *http.Request) {
	response := &GetVersionResponse{}
	GetGenericNoArg(w, r, response,
		func() int {
			response.GoVersion = runtime.Version()
			response.APIVersion = config.OrchestratorAPIVersion
			version, err := orchestrator.GetVersion(r.Context())
			if err != nil {
				response.Error = err.Error()
			}
			response.Version = version
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

func parseBoolQuery(query url.Values, key string) (*bool, error) {
	value := query.Get(key)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, errors.InvalidInputError("invalid value %q for %s", value, key)
	}
	return &b, nil
}

type ListServicesResponse struct {
	Services []*storage.Service `json:"services"`
	Error    string             `json:"error,omitempty"`
}

func ListServices(w http.ResponseWriter, r *http.Request) {
	response := &ListServicesResponse{}
	ListGeneric(w, r, response,
		func(query url.Values) int {
			filter := &persistentstore.ServiceFilter{
				Binary:      query.Get("binary"),
				Host:        query.Get("host"),
				ClusterName: query.Get("cluster"),
			}
			var err error
			if filter.Disabled, err = parseBoolQuery(query, "disabled"); err == nil {
				filter.Frozen, err = parseBoolQuery(query, "frozen")
			}
			if err == nil {
				response.Services, err = orchestrator.ListServices(r.Context(), filter)
			}
			if err != nil {
				response.Error = err.Error()
			}
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type GetServiceResponse struct {
	Service *storage.Service `json:"service"`
	Error   string           `json:"error,omitempty"`
}

func GetService(w http.ResponseWriter, r *http.Request) {
	response := &GetServiceResponse{}
	GetGeneric(w, r, "host", response,
		func(host string) int {
			service, err := orchestrator.GetService(r.Context(), host)
			if err != nil {
				response.Error = err.Error()
			}
			response.Service = service
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type ListClustersResponse struct {
	Clusters []*storage.Cluster `json:"clusters"`
	Error    string             `json:"error,omitempty"`
}

func ListClusters(w http.ResponseWriter, r *http.Request) {
	response := &ListClustersResponse{}
	ListGeneric(w, r, response,
		func(url.Values) int {
			clusters, err := orchestrator.ListClusters(r.Context())
			if err != nil {
				response.Error = err.Error()
			}
			response.Clusters = clusters
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

// FailoverRequest names the replication target to fail over to; "default" fails back.
type FailoverRequest struct {
	SecondaryBackendID string `json:"secondaryBackendID"`
}

// ReplicationActionResponse answers failover, freeze and thaw.
type ReplicationActionResponse struct {
	Target string `json:"target"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

func (r *ReplicationActionResponse) setError(err error) {
	r.Error = err.Error()
}

func (r *ReplicationActionResponse) isError() bool {
	return r.Error != ""
}

func (r *ReplicationActionResponse) logSuccess(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"target":  r.Target,
		"handler": r.Action,
	}).Info("Replication action accepted.")
}

func (r *ReplicationActionResponse) logFailure(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"target":  r.Target,
		"handler": r.Action,
	}).Error(r.Error)
}

// replicationAction runs a failover, freeze or thaw against a service host or a cluster.
func replicationAction(
	w http.ResponseWriter, r *http.Request, varName, action string,
	run func(ctx context.Context, host, cluster string, body []byte) (int, error),
) {
	response := &ReplicationActionResponse{Action: action}
	UpdateGeneric(w, r, varName, response,
		func(target string, body []byte) int {
			response.Target = target
			host, cluster := target, ""
			if varName == "cluster" {
				host, cluster = "", target
			}
			status, err := run(r.Context(), host, cluster, body)
			if err != nil {
				response.setError(err)
			}
			return status
		},
	)
}

func failover(ctx context.Context, host, cluster string, body []byte) (int, error) {
	request := &FailoverRequest{}
	if err := decodeBody(body, request); err != nil {
		return httpStatusCodeForError(err), err
	}
	err := orchestrator.Failover(ctx, host, cluster, request.SecondaryBackendID)
	return httpStatusCodeForAction(err), err
}

func freeze(ctx context.Context, host, cluster string, _ []byte) (int, error) {
	err := orchestrator.Freeze(ctx, host, cluster)
	return httpStatusCodeForAction(err), err
}

func thaw(ctx context.Context, host, cluster string, _ []byte) (int, error) {
	err := orchestrator.Thaw(ctx, host, cluster)
	return httpStatusCodeForGetUpdateList(err), err
}

func FailoverService(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "host", "FailoverService", failover)
}

func FreezeService(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "host", "FreezeService", freeze)
}

func ThawService(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "host", "ThawService", thaw)
}

func FailoverCluster(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "cluster", "FailoverCluster", failover)
}

func FreezeCluster(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "cluster", "FreezeCluster", freeze)
}

func ThawCluster(w http.ResponseWriter, r *http.Request) {
	replicationAction(w, r, "cluster", "ThawCluster", thaw)
}

type AddVolumeResponse struct {
	Volume *storage.Volume `json:"volume,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (r *AddVolumeResponse) setError(err error) {
	r.Error = err.Error()
}

func (r *AddVolumeResponse) isError() bool {
	return r.Error != ""
}

func (r *AddVolumeResponse) logSuccess(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"volume":  r.Volume.ID,
		"handler": "AddVolume",
	}).Info("Accepted a new volume.")
}

func (r *AddVolumeResponse) logFailure(ctx context.Context) {
	Logc(ctx).WithField("handler", "AddVolume").Error(r.Error)
}

func AddVolume(w http.ResponseWriter, r *http.Request) {
	response := &AddVolumeResponse{}
	AddGeneric(w, r, response,
		func(body []byte) int {
			request := &core.VolumeCreateRequest{}
			if err := json.Unmarshal(body, request); err != nil {
				response.setError(fmt.Errorf("invalid JSON: %s", err.Error()))
				return http.StatusBadRequest
			}
			volume, err := orchestrator.CreateVolume(r.Context(), request)
			if err != nil {
				response.setError(err)
			}
			response.Volume = volume
			return httpStatusCodeForAdd(err)
		},
	)
}

type ListVolumesResponse struct {
	Volumes []*storage.Volume `json:"volumes"`
	Error   string            `json:"error,omitempty"`
}

func ListVolumes(w http.ResponseWriter, r *http.Request) {
	response := &ListVolumesResponse{}
	ListGeneric(w, r, response,
		func(query url.Values) int {
			filter := &persistentstore.VolumeFilter{
				Host:        query.Get("host"),
				ClusterName: query.Get("cluster"),
				GroupID:     query.Get("group"),
			}
			for _, status := range query["status"] {
				filter.Statuses = append(filter.Statuses, storage.VolumeStatus(status))
			}
			volumes, err := orchestrator.ListVolumes(r.Context(), filter)
			if err != nil {
				response.Error = err.Error()
			}
			response.Volumes = volumes
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type GetVolumeResponse struct {
	Volume *storage.Volume `json:"volume"`
	Error  string          `json:"error,omitempty"`
}

func GetVolume(w http.ResponseWriter, r *http.Request) {
	response := &GetVolumeResponse{}
	GetGeneric(w, r, "volume", response,
		func(id string) int {
			volume, err := orchestrator.GetVolume(r.Context(), id)
			if err != nil {
				response.Error = err.Error()
			}
			response.Volume = volume
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

func DeleteVolume(w http.ResponseWriter, r *http.Request) {
	DeleteGeneric(w, r, orchestrator.DeleteVolume, "volume")
}

type ExtendVolumeRequest struct {
	NewSize int `json:"newSize"`
}

type MigrateVolumeRequest struct {
	Host string `json:"host"`
}

type RetypeVolumeRequest struct {
	VolumeType *storage.VolumeType `json:"volumeType"`
}

// VolumeActionResponse answers extend, migrate and retype.
type VolumeActionResponse struct {
	VolumeID string `json:"volume"`
	Action   string `json:"action"`
	Error    string `json:"error,omitempty"`
}

func (r *VolumeActionResponse) setError(err error) {
	r.Error = err.Error()
}

func (r *VolumeActionResponse) isError() bool {
	return r.Error != ""
}

func (r *VolumeActionResponse) logSuccess(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"volume":  r.VolumeID,
		"handler": r.Action,
	}).Info("Volume action accepted.")
}

func (r *VolumeActionResponse) logFailure(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"volume":  r.VolumeID,
		"handler": r.Action,
	}).Error(r.Error)
}

func volumeAction(
	w http.ResponseWriter, r *http.Request, action string, request interface{},
	run func(ctx context.Context, id string) error,
) {
	response := &VolumeActionResponse{Action: action}
	UpdateGeneric(w, r, "volume", response,
		func(id string, body []byte) int {
			response.VolumeID = id
			if err := decodeBody(body, request); err != nil {
				response.setError(err)
				return httpStatusCodeForError(err)
			}
			err := run(r.Context(), id)
			if err != nil {
				response.setError(err)
			}
			return httpStatusCodeForAction(err)
		},
	)
}

func ExtendVolume(w http.ResponseWriter, r *http.Request) {
	request := &ExtendVolumeRequest{}
	volumeAction(w, r, "ExtendVolume", request, func(ctx context.Context, id string) error {
		return orchestrator.ExtendVolume(ctx, id, request.NewSize)
	})
}

func MigrateVolume(w http.ResponseWriter, r *http.Request) {
	request := &MigrateVolumeRequest{}
	volumeAction(w, r, "MigrateVolume", request, func(ctx context.Context, id string) error {
		return orchestrator.MigrateVolume(ctx, id, request.Host)
	})
}

func RetypeVolume(w http.ResponseWriter, r *http.Request) {
	request := &RetypeVolumeRequest{}
	volumeAction(w, r, "RetypeVolume", request, func(ctx context.Context, id string) error {
		return orchestrator.RetypeVolume(ctx, id, request.VolumeType)
	})
}

type AddSnapshotRequest struct {
	VolumeID string `json:"volumeID"`
	Name     string `json:"name"`
}

type AddSnapshotResponse struct {
	Snapshot *storage.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (r *AddSnapshotResponse) setError(err error) {
	r.Error = err.Error()
}

func (r *AddSnapshotResponse) isError() bool {
	return r.Error != ""
}

func (r *AddSnapshotResponse) logSuccess(ctx context.Context) {
	Logc(ctx).WithFields(LogFields{
		"snapshot": r.Snapshot.ID,
		"volume":   r.Snapshot.VolumeID,
		"handler":  "AddSnapshot",
	}).Info("Accepted a new snapshot.")
}

func (r *AddSnapshotResponse) logFailure(ctx context.Context) {
	Logc(ctx).WithField("handler", "AddSnapshot").Error(r.Error)
}

func AddSnapshot(w http.ResponseWriter, r *http.Request) {
	response := &AddSnapshotResponse{}
	AddGeneric(w, r, response,
		func(body []byte) int {
			request := &AddSnapshotRequest{}
			if err := json.Unmarshal(body, request); err != nil {
				response.setError(fmt.Errorf("invalid JSON: %s", err.Error()))
				return http.StatusBadRequest
			}
			snapshot, err := orchestrator.CreateSnapshot(r.Context(), request.VolumeID, request.Name)
			if err != nil {
				response.setError(err)
			}
			response.Snapshot = snapshot
			return httpStatusCodeForAdd(err)
		},
	)
}

type ListSnapshotsResponse struct {
	Snapshots []*storage.Snapshot `json:"snapshots"`
	Error     string              `json:"error,omitempty"`
}

func ListSnapshots(w http.ResponseWriter, r *http.Request) {
	response := &ListSnapshotsResponse{}
	ListGeneric(w, r, response,
		func(query url.Values) int {
			snapshots, err := orchestrator.ListSnapshots(r.Context(), query.Get("volume"))
			if err != nil {
				response.Error = err.Error()
			}
			response.Snapshots = snapshots
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

func DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	DeleteGeneric(w, r, orchestrator.DeleteSnapshot, "snapshot")
}

type ListGroupsResponse struct {
	Groups []*storage.Group `json:"groups"`
	Error  string           `json:"error,omitempty"`
}

func ListGroups(w http.ResponseWriter, r *http.Request) {
	response := &ListGroupsResponse{}
	ListGeneric(w, r, response,
		func(url.Values) int {
			groups, err := orchestrator.ListGroups(r.Context())
			if err != nil {
				response.Error = err.Error()
			}
			response.Groups = groups
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type ListMessagesResponse struct {
	Messages []*storage.Message `json:"messages"`
	Error    string             `json:"error,omitempty"`
}

func ListMessages(w http.ResponseWriter, r *http.Request) {
	response := &ListMessagesResponse{}
	ListGeneric(w, r, response,
		func(query url.Values) int {
			messages, err := orchestrator.ListMessages(r.Context(), &persistentstore.MessageFilter{
				ResourceUUID: query.Get("resource"),
				EventID:      query.Get("event"),
			})
			if err != nil {
				response.Error = err.Error()
			}
			response.Messages = messages
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type GetMessageResponse struct {
	Message *storage.Message `json:"message"`
	Error   string           `json:"error,omitempty"`
}

func GetMessage(w http.ResponseWriter, r *http.Request) {
	response := &GetMessageResponse{}
	GetGeneric(w, r, "message", response,
		func(id string) int {
			message, err := orchestrator.GetMessage(r.Context(), id)
			if err != nil {
				response.Error = err.Error()
			}
			response.Message = message
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	DeleteGeneric(w, r, orchestrator.DeleteMessage, "message")
}

type ListPoolsResponse struct {
	Pools []*storage.PoolInfo `json:"pools"`
	Error string              `json:"error,omitempty"`
}

func ListPools(w http.ResponseWriter, r *http.Request) {
	response := &ListPoolsResponse{}
	ListGeneric(w, r, response,
		func(query url.Values) int {
			pools, err := orchestrator.GetPools(r.Context(), query.Get("backend"))
			if err != nil {
				response.Error = err.Error()
			}
			response.Pools = pools
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

type ListManageableResponse struct {
	Volumes   []*storage.ManageableVolume   `json:"volumes,omitempty"`
	Snapshots []*storage.ManageableSnapshot `json:"snapshots,omitempty"`
	Error     string                        `json:"error,omitempty"`
}

// manageableOptions reads marker, limit, offset, sort_keys and sort_dirs.
func manageableOptions(query url.Values) (*storage.ManageableListOptions, error) {
	opts := &storage.ManageableListOptions{Marker: query.Get("marker")}
	for key, dest := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		value := query.Get(key)
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.InvalidInputError("invalid %s %q", key, value)
		}
		*dest = n
	}
	if keys := query.Get("sort_keys"); keys != "" {
		opts.SortKeys = strings.Split(keys, ",")
	}
	if dirs := query.Get("sort_dirs"); dirs != "" {
		opts.SortDirs = strings.Split(dirs, ",")
	}
	return opts, nil
}

// ListManageable lists volumes, or snapshots with ?type=snapshot, that a backend holds.
func ListManageable(w http.ResponseWriter, r *http.Request) {
	response := &ListManageableResponse{}
	GetGeneric(w, r, "host", response,
		func(host string) int {
			query := r.URL.Query()
			opts, err := manageableOptions(query)
			if err == nil {
				switch query.Get("type") {
				case "", "volume":
					response.Volumes, err = orchestrator.GetManageableVolumes(r.Context(), host, opts)
				case "snapshot":
					response.Snapshots, err = orchestrator.GetManageableSnapshots(r.Context(), host, opts)
				default:
					err = errors.InvalidInputError("invalid manageable type %q", query.Get("type"))
				}
			}
			if err != nil {
				response.Error = err.Error()
			}
			return httpStatusCodeForGetUpdateList(err)
		},
	)
}

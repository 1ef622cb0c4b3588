// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/rpcapi"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

type capabilityRecord struct {
	capabilities *storage.Capabilities
	hash         uint64
	reportedAt   time.Time
}

// HostManager tracks the capability reports of volume services and turns them into
// schedulable pools.
type HostManager struct {
	store           persistentstore.Client
	serviceDownTime time.Duration
	now             func() time.Time

	mutex    sync.Mutex
	reports  map[string]*capabilityRecord
	backends map[string]*BackendState
	// missing holds up services that have not reported capabilities yet.
	missing map[string]struct{}
}

func NewHostManager(store persistentstore.Client, serviceDownTime time.Duration) *HostManager {
	return &HostManager{
		store:           store,
		serviceDownTime: serviceDownTime,
		now:             time.Now,
		reports:         make(map[string]*capabilityRecord),
		backends:        make(map[string]*BackendState),
		missing:         make(map[string]struct{}),
	}
}

// UpdateServiceCapabilities records a report and returns whether its content differs
// from the previous report for the same service.
func (h *HostManager) UpdateServiceCapabilities(ctx context.Context, report *rpcapi.CapabilitiesReport) bool {
	if report == nil || report.Capabilities == nil || report.ServiceName != config.VolumeBinary {
		return false
	}

	hash, err := hashstructure.Hash(report.Capabilities, hashstructure.FormatV2, nil)
	if err != nil {
		Logc(ctx).WithField("host", report.Host).WithError(err).Warning("Could not hash capabilities.")
	}
	reportedAt := report.Timestamp
	if reportedAt.IsZero() {
		reportedAt = h.now()
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	previous, known := h.reports[report.Host]
	changed := !known || err != nil || previous.hash != hash
	h.reports[report.Host] = &capabilityRecord{
		capabilities: report.Capabilities.SmartCopy(),
		hash:         hash,
		reportedAt:   reportedAt,
	}
	delete(h.missing, report.Host)

	Logc(ctx).WithFields(LogFields{
		"host":    report.Host,
		"changed": changed,
	}).Trace("Received capability report.")
	return changed
}

// activeServices returns the volume services that may receive new work.
func (h *HostManager) activeServices(ctx context.Context) ([]*storage.Service, error) {
	services, err := h.store.GetServices(ctx, &persistentstore.ServiceFilter{Binary: config.VolumeBinary})
	if err != nil {
		return nil, err
	}
	now := h.now()
	active := make([]*storage.Service, 0, len(services))
	for _, svc := range services {
		if svc.Disabled || svc.Frozen || !svc.IsUp(now, h.serviceDownTime) {
			continue
		}
		active = append(active, svc)
	}
	return active, nil
}

// FirstReceiveCapabilities reports whether every active volume service has reported.
func (h *HostManager) FirstReceiveCapabilities(ctx context.Context) (bool, error) {
	services, err := h.activeServices(ctx)
	if err != nil {
		return false, err
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, svc := range services {
		if _, ok := h.reports[svc.Host]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// GetAllBackendStates refreshes the backend view from the registry and the latest reports
// and returns every schedulable pool, ordered by pool host.
func (h *HostManager) GetAllBackendStates(ctx context.Context) ([]*PoolState, error) {
	services, err := h.activeServices(ctx)
	if err != nil {
		return nil, err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.refresh(ctx, services), nil
}

func (h *HostManager) refresh(ctx context.Context, services []*storage.Service) []*PoolState {
	seen := make(map[string]struct{}, len(services))
	for _, svc := range services {
		seen[svc.Host] = struct{}{}
		record, ok := h.reports[svc.Host]
		if !ok {
			if _, logged := h.missing[svc.Host]; !logged {
				Logc(ctx).WithField("host", svc.Host).Warning("Volume service has not reported capabilities yet.")
			}
			h.missing[svc.Host] = struct{}{}
			continue
		}

		backend, ok := h.backends[svc.Host]
		if !ok {
			backend = newBackendState(svc.Host, svc.ClusterName, svc.AvailabilityZone)
			h.backends[svc.Host] = backend
		}
		backend.ClusterName = svc.ClusterName
		backend.AvailabilityZone = svc.AvailabilityZone
		if backend.updateFromCapabilities(record.capabilities, record.reportedAt) {
			Logc(ctx).WithField("host", svc.Host).Debug("Refreshed backend pools from capabilities.")
		}
	}

	for host := range h.backends {
		if _, ok := seen[host]; !ok {
			Logc(ctx).WithField("host", host).Info("Removing inactive backend from the scheduler.")
			delete(h.backends, host)
		}
	}
	for host := range h.missing {
		if _, ok := seen[host]; !ok {
			delete(h.missing, host)
		}
	}

	hosts := make([]string, 0, len(h.backends))
	for host := range h.backends {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	pools := make([]*PoolState, 0)
	for _, host := range hosts {
		pools = append(pools, h.backends[host].sortedPools()...)
	}
	return pools
}

// ConsumeFromVolume charges a placement against pool.
func (h *HostManager) ConsumeFromVolume(pool *PoolState, sizeGiB int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	pool.ConsumeFromVolume(sizeGiB)
}

// BackendsWithoutCapabilities lists active services that have never reported.
func (h *HostManager) BackendsWithoutCapabilities() []string {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	hosts := make([]string, 0, len(h.missing))
	for host := range h.missing {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// GetPools describes the pools of every active backend, or of one backend when backend
// is set.
func (h *HostManager) GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error) {
	services, err := h.activeServices(ctx)
	if err != nil {
		return nil, err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	pools := h.refresh(ctx, services)
	infos := make([]*storage.PoolInfo, 0, len(pools))
	for _, p := range pools {
		if backend != "" && !storage.SameBackend(p.Host, backend) {
			continue
		}
		infos = append(infos, p.Info())
	}
	if backend != "" && len(infos) == 0 {
		return nil, errors.NotFoundError("no pools reported for backend %s", backend)
	}
	return infos, nil
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"sort"
	"time"

	"github.com/openblock/blockd/storage"
)

// BackendState is the scheduler's view of one volume service.
type BackendState struct {
	Host             string
	ClusterName      string
	AvailabilityZone string
	Capabilities     *storage.Capabilities
	Pools            map[string]*PoolState
	// UpdatedAt is the timestamp of the capability report the pools were built from.
	UpdatedAt time.Time
}

func newBackendState(host, cluster, zone string) *BackendState {
	return &BackendState{
		Host:             host,
		ClusterName:      cluster,
		AvailabilityZone: zone,
		Pools:            make(map[string]*PoolState),
	}
}

// updateFromCapabilities rebuilds the pools from a report newer than the last one seen.
// Older reports are ignored so capacity consumed since the last report is not lost.
func (b *BackendState) updateFromCapabilities(caps *storage.Capabilities, reportedAt time.Time) bool {
	if caps == nil || (!b.UpdatedAt.IsZero() && !reportedAt.After(b.UpdatedAt)) {
		return false
	}
	b.Capabilities = caps.SmartCopy()
	b.UpdatedAt = reportedAt

	pools := make(map[string]*PoolState, len(caps.Pools))
	for i := range b.Capabilities.Pools {
		pc := b.Capabilities.Pools[i]
		name := pc.PoolName
		if name == "" {
			name = storage.DefaultPoolName
		}
		pools[name] = &PoolState{
			Host:             storage.AppendHost(b.Host, name),
			BackendHost:      b.Host,
			ClusterName:      b.ClusterName,
			PoolName:         name,
			AvailabilityZone: b.AvailabilityZone,
			PoolCapabilities: pc,
			backend:          b.Capabilities,
			UpdatedAt:        reportedAt,
		}
	}
	b.Pools = pools
	return true
}

func (b *BackendState) sortedPools() []*PoolState {
	pools := make([]*PoolState, 0, len(b.Pools))
	for _, p := range b.Pools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].Host < pools[j].Host })
	return pools
}

// PoolState is one schedulable pool. Capacity fields are in GiB and may hold the
// storage.CapacityInfinite or storage.CapacityUnknown sentinels.
type PoolState struct {
	storage.PoolCapabilities

	// Host is host@backend#pool.
	Host             string
	BackendHost      string
	ClusterName      string
	PoolName         string
	AvailabilityZone string
	UpdatedAt        time.Time

	backend *storage.Capabilities
}

// Attributes returns the flattened capabilities extra specs are matched against.
func (p *PoolState) Attributes() map[string]string {
	return p.PoolCapabilities.Attributes(p.backend)
}

// ConsumeFromVolume charges a placement against the pool until its next report.
func (p *PoolState) ConsumeFromVolume(sizeGiB int) {
	size := float64(sizeGiB)
	p.AllocatedCapacityGB += size
	p.ProvisionedCapacityGB += size
	if p.FreeCapacityGB >= 0 {
		p.FreeCapacityGB -= size
	}
	p.TotalVolumes++
}

func (p *PoolState) Info() *storage.PoolInfo {
	return &storage.PoolInfo{
		Name:         p.Host,
		BackendName:  p.backendName(),
		Capabilities: p.PoolCapabilities,
		Attributes:   p.Attributes(),
		UpdatedAt:    p.UpdatedAt,
	}
}

func (p *PoolState) backendName() string {
	if p.backend != nil {
		return p.backend.BackendName
	}
	return ""
}

// WeighedBackend is a pool that passed the filters together with its combined weight.
type WeighedBackend struct {
	Pool   *PoolState
	Weight float64
}

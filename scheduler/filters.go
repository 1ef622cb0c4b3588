// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"context"
	"math"
	"slices"

	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
	sa "github.com/openblock/blockd/storage_attribute"
)

// ProvisioningTypeSpec selects thin or thick provisioning in a volume type's extra specs.
const ProvisioningTypeSpec = "provisioning:type"

// FilterRequest is everything a filter or weigher may look at for one placement.
type FilterRequest struct {
	Spec  *storage.RequestSpec
	Props *storage.FilterProperties
}

// RequestedSize is the capacity the placement needs: the growth for an extend, else the
// volume size.
func (r *FilterRequest) RequestedSize() int {
	if r.Spec.ExtendBy > 0 {
		return r.Spec.ExtendBy
	}
	return r.Spec.Size
}

func (r *FilterRequest) extraSpecs() map[string]string {
	if r.Spec.VolumeType == nil {
		return nil
	}
	return r.Spec.VolumeType.ExtraSpecs
}

// wantsThin reports whether the volume would be thin provisioned on pool.
func (r *FilterRequest) wantsThin(pool *PoolState) bool {
	switch r.extraSpecs()[ProvisioningTypeSpec] {
	case "thin":
		return true
	case "thick":
		return false
	}
	return pool.ThinProvisioningSupport
}

// Filter rejects pools that cannot take a placement.
type Filter interface {
	Name() string
	BackendPasses(ctx context.Context, pool *PoolState, req *FilterRequest) bool
}

type AvailabilityZoneFilter struct{}

func (AvailabilityZoneFilter) Name() string { return "AvailabilityZoneFilter" }

func (AvailabilityZoneFilter) BackendPasses(_ context.Context, pool *PoolState, req *FilterRequest) bool {
	return req.Spec.AvailabilityZone == "" || req.Spec.AvailabilityZone == pool.AvailabilityZone
}

// CapacityFilter checks free space after the reserved percentage. Thin provisioned
// placements are checked against the over-subscription ratio instead of raw free space.
// Pools that cannot measure free space are assumed to fit.
type CapacityFilter struct{}

func (CapacityFilter) Name() string { return "CapacityFilter" }

func (CapacityFilter) BackendPasses(ctx context.Context, pool *PoolState, req *FilterRequest) bool {
	requested := float64(req.RequestedSize())
	fields := LogFields{"pool": pool.Host, "requested": requested}

	free, total := pool.FreeCapacityGB, pool.TotalCapacityGB
	reserved := float64(pool.ReservedPercentage) / 100

	if free == storage.CapacityInfinite || free == storage.CapacityUnknown {
		return true
	}
	if total == storage.CapacityInfinite || total == storage.CapacityUnknown {
		// Reserved space cannot be computed without a total.
		return reserved == 0
	}
	if total <= 0 {
		Logc(ctx).WithFields(fields).Warning("Pool reports no total capacity.")
		return false
	}

	free -= math.Floor(total * reserved)

	if req.wantsThin(pool) && pool.ThinProvisioningSupport && pool.MaxOverSubscriptionRatio >= 1 {
		provisionedRatio := (pool.ProvisionedCapacityGB + requested) / total
		if provisionedRatio > pool.MaxOverSubscriptionRatio {
			Logc(ctx).WithFields(fields).WithField("ratio", provisionedRatio).
				Debug("Placement would exceed the over-subscription ratio.")
			return false
		}
		return free*pool.MaxOverSubscriptionRatio >= requested
	}

	if free < requested {
		Logc(ctx).WithFields(fields).WithField("free", free).Debug("Insufficient free space.")
		return false
	}
	return true
}

// CapabilitiesFilter matches the volume type's extra specs against pool capabilities.
type CapabilitiesFilter struct{}

func (CapabilitiesFilter) Name() string { return "CapabilitiesFilter" }

func (CapabilitiesFilter) BackendPasses(ctx context.Context, pool *PoolState, req *FilterRequest) bool {
	specs := req.extraSpecs()
	if len(specs) == 0 {
		return true
	}
	requests, err := sa.ParseRequestMap(specs)
	if err != nil {
		Logc(ctx).WithField("pool", pool.Host).WithError(err).Warning("Invalid extra specs.")
		return false
	}

	ok, mismatch := sa.MatchCapabilities(requests, pool.Attributes())
	if !ok {
		Logc(ctx).WithFields(LogFields{
			"pool":    pool.Host,
			"key":     mismatch.Key,
			"request": mismatch.Request.String(),
		}).Debug("Pool capabilities do not match.")
	}
	return ok
}

// RetryFilter skips backends already tried for this request or explicitly ignored.
type RetryFilter struct{}

func (RetryFilter) Name() string { return "RetryFilter" }

func (RetryFilter) BackendPasses(_ context.Context, pool *PoolState, req *FilterRequest) bool {
	if req.Props == nil {
		return true
	}
	if slices.ContainsFunc(req.Props.IgnoreBackends, func(host string) bool {
		return storage.SameBackend(host, pool.Host)
	}) {
		return false
	}
	if req.Props.Retry == nil {
		return true
	}
	return !slices.Contains(req.Props.Retry.Backends, pool.Host)
}

var knownFilters = map[string]Filter{
	AvailabilityZoneFilter{}.Name(): AvailabilityZoneFilter{},
	CapacityFilter{}.Name():         CapacityFilter{},
	CapabilitiesFilter{}.Name():     CapabilitiesFilter{},
	RetryFilter{}.Name():            RetryFilter{},
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"math"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/storage"
)

// Weigher scores pools; higher is better once multiplied. Raw scores are normalized to
// [0, 1] across the candidates before the multiplier applies, so weighers with different
// units can be summed.
type Weigher interface {
	Name() string
	Multiplier() float64
	Weigh(pool *PoolState, req *FilterRequest) float64
}

// CapacityWeigher prefers pools with more usable space. Thin pools may be weighed by
// virtual free space. Pools with unknown capacity rank last, infinite capacity first.
type CapacityWeigher struct {
	multiplier float64
	virtual    bool
}

func (w *CapacityWeigher) Name() string        { return "CapacityWeigher" }
func (w *CapacityWeigher) Multiplier() float64 { return w.multiplier }

func (w *CapacityWeigher) Weigh(pool *PoolState, req *FilterRequest) float64 {
	free, total := pool.FreeCapacityGB, pool.TotalCapacityGB
	switch {
	case free == storage.CapacityUnknown || total == storage.CapacityUnknown:
		if w.multiplier > 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case free == storage.CapacityInfinite || total == storage.CapacityInfinite:
		return math.Inf(1)
	}

	reserved := math.Floor(total * float64(pool.ReservedPercentage) / 100)
	if w.virtual && req.wantsThin(pool) && pool.ThinProvisioningSupport {
		return total*pool.MaxOverSubscriptionRatio - pool.ProvisionedCapacityGB - reserved
	}
	return free - reserved
}

// AllocatedCapacityWeigher scores by capacity already allocated; with its usual negative
// multiplier it spreads volumes toward emptier pools.
type AllocatedCapacityWeigher struct {
	multiplier float64
}

func (w *AllocatedCapacityWeigher) Name() string        { return "AllocatedCapacityWeigher" }
func (w *AllocatedCapacityWeigher) Multiplier() float64 { return w.multiplier }

func (w *AllocatedCapacityWeigher) Weigh(pool *PoolState, _ *FilterRequest) float64 {
	return pool.AllocatedCapacityGB
}

// VolumeNumberWeigher scores by the number of volumes in the pool.
type VolumeNumberWeigher struct {
	multiplier float64
}

func (w *VolumeNumberWeigher) Name() string        { return "VolumeNumberWeigher" }
func (w *VolumeNumberWeigher) Multiplier() float64 { return w.multiplier }

func (w *VolumeNumberWeigher) Weigh(pool *PoolState, _ *FilterRequest) float64 {
	return float64(pool.TotalVolumes)
}

func newWeigher(name string, opts *config.SchedulerOptions) (Weigher, bool) {
	switch name {
	case "CapacityWeigher":
		return &CapacityWeigher{
			multiplier: opts.CapacityWeightMultiplier,
			virtual:    opts.UseVirtualCapacityForWeighing,
		}, true
	case "AllocatedCapacityWeigher":
		return &AllocatedCapacityWeigher{multiplier: opts.AllocatedCapacityMultiplier}, true
	case "VolumeNumberWeigher":
		return &VolumeNumberWeigher{multiplier: opts.VolumeNumberWeightMultiplier}, true
	}
	return nil, false
}

// normalize maps raw scores onto [0, 1]. Infinite scores take the value of the largest
// or smallest finite score; when all scores are equal every result is 0.
func normalize(raw []float64) []float64 {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range raw {
		if math.IsInf(v, 0) {
			continue
		}
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	weights := make([]float64, len(raw))
	if math.IsInf(minVal, 1) {
		// Every score is infinite: rank +Inf above -Inf.
		for i, v := range raw {
			if v > 0 {
				weights[i] = 1
			}
		}
		return weights
	}
	if maxVal == minVal {
		return weights
	}

	span := maxVal - minVal
	for i, v := range raw {
		switch {
		case math.IsInf(v, 1):
			v = maxVal
		case math.IsInf(v, -1):
			v = minVal
		}
		weights[i] = (v - minVal) / span
	}
	return weights
}

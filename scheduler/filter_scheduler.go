// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// Driver is a placement policy.
type Driver interface {
	// ScheduleCreateVolume picks the pool for a new volume and charges the volume's size
	// against it. The retry record in props gains the chosen pool.
	ScheduleCreateVolume(
		ctx context.Context, spec *storage.RequestSpec, props *storage.FilterProperties,
	) (*WeighedBackend, error)
	// BackendPassesFilters checks that a given backend, or pool when backend names one,
	// can still take the request.
	BackendPassesFilters(
		ctx context.Context, backend string, spec *storage.RequestSpec, props *storage.FilterProperties,
	) (*PoolState, error)
	GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error)
}

// FilterScheduler filters the candidate pools, weighs the survivors, and picks the
// highest weight. Ties go to the lexically smallest pool host.
type FilterScheduler struct {
	hostManager *HostManager
	filters     []Filter
	weighers    []Weigher
	maxAttempts int

	// mutex keeps a selection and its capacity charge together.
	mutex sync.Mutex
}

func NewFilterScheduler(hostManager *HostManager, opts *config.SchedulerOptions) (*FilterScheduler, error) {
	fs := &FilterScheduler{hostManager: hostManager, maxAttempts: opts.MaxAttempts}
	for _, name := range opts.DefaultFilters {
		f, ok := knownFilters[name]
		if !ok {
			return nil, errors.InvalidInputError("unknown scheduler filter %s", name)
		}
		fs.filters = append(fs.filters, f)
	}
	for _, name := range opts.DefaultWeighers {
		w, ok := newWeigher(name, opts)
		if !ok {
			return nil, errors.InvalidInputError("unknown scheduler weigher %s", name)
		}
		fs.weighers = append(fs.weighers, w)
	}
	return fs, nil
}

// populateRetry counts this attempt. Retry tracking is off when only one attempt is allowed.
func (fs *FilterScheduler) populateRetry(spec *storage.RequestSpec, props *storage.FilterProperties) error {
	if fs.maxAttempts <= 1 || props == nil {
		return nil
	}
	if props.Retry == nil {
		props.Retry = &storage.RetryInfo{}
	}
	props.Retry.NumAttempts++
	if props.Retry.NumAttempts > fs.maxAttempts {
		reason := fmt.Sprintf("exceeded max scheduling attempts %d for volume %s", fs.maxAttempts, spec.VolumeID)
		if props.Retry.Exception != "" {
			reason += "; last error: " + props.Retry.Exception
		}
		return errors.NoValidBackendError("%s", reason)
	}
	return nil
}

func (fs *FilterScheduler) filter(ctx context.Context, pools []*PoolState, req *FilterRequest) []*PoolState {
	passed := pools
	for _, f := range fs.filters {
		next := make([]*PoolState, 0, len(passed))
		for _, p := range passed {
			if f.BackendPasses(ctx, p, req) {
				next = append(next, p)
			}
		}
		Logc(ctx).WithFields(LogFields{
			"filter": f.Name(),
			"before": len(passed),
			"after":  len(next),
		}).Trace("Applied scheduler filter.")
		passed = next
		if len(passed) == 0 {
			break
		}
	}
	return passed
}

func (fs *FilterScheduler) weigh(pools []*PoolState, req *FilterRequest) []*WeighedBackend {
	weighed := make([]*WeighedBackend, len(pools))
	for i, p := range pools {
		weighed[i] = &WeighedBackend{Pool: p}
	}
	for _, w := range fs.weighers {
		raw := make([]float64, len(pools))
		for i, p := range pools {
			raw[i] = w.Weigh(p, req)
		}
		for i, n := range normalize(raw) {
			weighed[i].Weight += w.Multiplier() * n
		}
	}
	sort.SliceStable(weighed, func(i, j int) bool {
		if weighed[i].Weight != weighed[j].Weight {
			return weighed[i].Weight > weighed[j].Weight
		}
		return weighed[i].Pool.Host < weighed[j].Pool.Host
	})
	return weighed
}

func (fs *FilterScheduler) weighedCandidates(
	ctx context.Context, spec *storage.RequestSpec, props *storage.FilterProperties,
) ([]*WeighedBackend, error) {
	pools, err := fs.hostManager.GetAllBackendStates(ctx)
	if err != nil {
		return nil, err
	}
	if spec.SourceHost != "" {
		candidates := make([]*PoolState, 0, len(pools))
		for _, p := range pools {
			if !storage.SameBackend(p.Host, spec.SourceHost) {
				candidates = append(candidates, p)
			}
		}
		pools = candidates
	}

	req := &FilterRequest{Spec: spec, Props: props}
	return fs.weigh(fs.filter(ctx, pools, req), req), nil
}

func (fs *FilterScheduler) ScheduleCreateVolume(
	ctx context.Context, spec *storage.RequestSpec, props *storage.FilterProperties,
) (*WeighedBackend, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if err := fs.populateRetry(spec, props); err != nil {
		return nil, err
	}
	weighed, err := fs.weighedCandidates(ctx, spec, props)
	if err != nil {
		return nil, err
	}
	if len(weighed) == 0 {
		return nil, errors.NoValidBackendError("no weighed backends available for volume %s", spec.VolumeID)
	}

	best := weighed[0]
	if props != nil && props.Retry != nil {
		props.Retry.Backends = append(props.Retry.Backends, best.Pool.Host)
	}
	fs.hostManager.ConsumeFromVolume(best.Pool, spec.Size)

	Logc(ctx).WithFields(LogFields{
		"volume": spec.VolumeID,
		"pool":   best.Pool.Host,
		"weight": best.Weight,
	}).Debug("Chose pool for volume.")
	return best, nil
}

func (fs *FilterScheduler) BackendPassesFilters(
	ctx context.Context, backend string, spec *storage.RequestSpec, props *storage.FilterProperties,
) (*PoolState, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	weighed, err := fs.weighedCandidates(ctx, spec, props)
	if err != nil {
		return nil, err
	}

	exactPool := strings.Contains(backend, "#")
	for _, w := range weighed {
		if (exactPool && w.Pool.Host == backend) || (!exactPool && storage.SameBackend(w.Pool.Host, backend)) {
			fs.hostManager.ConsumeFromVolume(w.Pool, (&FilterRequest{Spec: spec}).RequestedSize())
			return w.Pool, nil
		}
	}
	return nil, errors.NoValidBackendError("cannot place volume %s on %s", spec.VolumeID, backend)
}

func (fs *FilterScheduler) GetPools(ctx context.Context, backend string) ([]*storage.PoolInfo, error) {
	return fs.hostManager.GetPools(ctx, backend)
}

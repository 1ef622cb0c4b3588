// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storagedrivers

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/utils/errors"
)

// ValidateCommonSettings checks the parts of a backend config every driver relies on.
func ValidateCommonSettings(ctx context.Context, backend *config.BackendConfig) error {
	if backend == nil {
		return errors.InvalidInputError("missing backend configuration")
	}
	if backend.Name == "" || backend.Host == "" {
		return errors.InvalidInputError("backend configuration needs a name and a host")
	}
	if backend.Driver == "" {
		return errors.InvalidInputError("missing storage driver name in backend %s", backend.Name)
	}
	if limit := backend.Options[OptionLimitVolumeSize]; limit != "" {
		if _, err := humanize.ParseBytes(limit); err != nil {
			return errors.InvalidInputError("invalid value for %s: %v", OptionLimitVolumeSize, limit)
		}
	}

	seen := make(map[string]struct{}, len(backend.Pools))
	for _, pool := range backend.Pools {
		if _, ok := seen[pool.Name]; ok {
			return errors.InvalidInputError("backend %s defines pool %s twice", backend.Name, pool.Name)
		}
		seen[pool.Name] = struct{}{}
		if pool.ReservedPercentage < 0 || pool.ReservedPercentage > 100 {
			return errors.InvalidInputError("pool %s has an invalid reserved percentage %d",
				pool.Name, pool.ReservedPercentage)
		}
	}

	for _, target := range backend.ReplicationTargets {
		if target == config.FailbackTarget {
			Logc(ctx).WithField("backend", backend.Name).Warningf(
				"Replication target name %s is reserved for failback and cannot be used.", target)
			return errors.InvalidInputError("replication target %s is reserved", target)
		}
	}
	return nil
}

// CheckVolumeSizeLimits ensures the requested size is under the backend's limit, if one
// is set. It reports whether a limit applies and its value in bytes.
func CheckVolumeSizeLimits(ctx context.Context, requestedGiB int, limitVolumeSize string) (bool, uint64, error) {
	if limitVolumeSize == "" {
		return false, 0, nil
	}

	limit, err := humanize.ParseBytes(limitVolumeSize)
	if err != nil {
		return false, 0, fmt.Errorf("error parsing %s: %v", OptionLimitVolumeSize, err)
	}
	requested := uint64(requestedGiB) * humanize.GiByte

	Logc(ctx).WithFields(LogFields{
		"limitVolumeSize": limitVolumeSize,
		"limitBytes":      limit,
		"requestedBytes":  requested,
	}).Trace("Comparing volume size with limit.")

	if requested > limit {
		return true, limit, errors.UnsupportedError("requested size %s exceeds the size limit %s",
			humanize.IBytes(requested), humanize.IBytes(limit))
	}
	return true, limit, nil
}

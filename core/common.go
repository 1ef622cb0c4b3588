// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

import (
	"context"
	"time"

	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
	"github.com/openblock/blockd/storage"
	"github.com/openblock/blockd/utils/errors"
)

// recordTiming is used to record in Prometheus the total time taken for an operation as follows:
//
//	defer recordTiming("volume_create", &err)()
func recordTiming(operation string, err *error) func() {
	startTime := time.Now()
	return func() {
		endTimeMS := float64(time.Since(startTime).Milliseconds())
		success := "true"
		if *err != nil {
			success = "false"
		}
		operationDurationInMsSummary.WithLabelValues(operation, success).Observe(endTimeMS)
	}
}

func always[T any](*T) bool { return true }

// notFound translates a store miss into a NotFound error naming the resource.
func notFound(err error, kind, id string) error {
	if persistentstore.MatchKeyNotFoundErr(err) {
		return errors.NotFoundError("%s %s not found", kind, id)
	}
	return err
}

// markSnapshotsError moves every snapshot of the volume to error.
func markSnapshotsError(ctx context.Context, store persistentstore.Client, volumeID string) error {
	snapshots, err := store.GetSnapshots(ctx, &persistentstore.SnapshotFilter{VolumeIDs: []string{volumeID}})
	if err != nil {
		return err
	}
	var errs error
	for _, snapshot := range snapshots {
		if snapshot.Status == storage.SnapshotStatusError {
			continue
		}
		snapshot.Status = storage.SnapshotStatusError
		if err = store.UpdateSnapshot(ctx, snapshot); err != nil {
			errs = errors.Append(errs, err)
			continue
		}
		Logc(ctx).WithFields(LogFields{
			"snapshot": snapshot.ID,
			"volume":   volumeID,
		}).Debug("Snapshot moved to error with its volume.")
	}
	return errs
}

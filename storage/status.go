// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

type VolumeStatus string

const (
	VolumeStatusCreating       = VolumeStatus("creating")
	VolumeStatusAvailable      = VolumeStatus("available")
	VolumeStatusInUse          = VolumeStatus("in-use")
	VolumeStatusDeleting       = VolumeStatus("deleting")
	VolumeStatusError          = VolumeStatus("error")
	VolumeStatusErrorDeleting  = VolumeStatus("error_deleting")
	VolumeStatusErrorExtending = VolumeStatus("error_extending")
	VolumeStatusExtending      = VolumeStatus("extending")
	VolumeStatusMaintenance    = VolumeStatus("maintenance")
	VolumeStatusRetyping       = VolumeStatus("retyping")
)

func (s VolumeStatus) String() string {
	return string(s)
}

// IsError reports whether the status is one of the error states.
func (s VolumeStatus) IsError() bool {
	switch s {
	case VolumeStatusError, VolumeStatusErrorDeleting, VolumeStatusErrorExtending:
		return true
	}
	return false
}

type SnapshotStatus string

const (
	SnapshotStatusCreating  = SnapshotStatus("creating")
	SnapshotStatusAvailable = SnapshotStatus("available")
	SnapshotStatusDeleting  = SnapshotStatus("deleting")
	SnapshotStatusError     = SnapshotStatus("error")
)

func (s SnapshotStatus) String() string {
	return string(s)
}

type GroupStatus string

const (
	GroupStatusCreating  = GroupStatus("creating")
	GroupStatusAvailable = GroupStatus("available")
	GroupStatusDeleting  = GroupStatus("deleting")
	GroupStatusError     = GroupStatus("error")
)

func (s GroupStatus) String() string {
	return string(s)
}

// ReplicationStatus is the state of a replication relationship for a volume, group,
// service or cluster.
type ReplicationStatus string

const (
	ReplicationDisabled      = ReplicationStatus("disabled")
	ReplicationNotCapable    = ReplicationStatus("not-capable")
	ReplicationEnabled       = ReplicationStatus("enabled")
	ReplicationFailingOver   = ReplicationStatus("failing-over")
	ReplicationFailedOver    = ReplicationStatus("failed-over")
	ReplicationFailoverError = ReplicationStatus("failover-error")
	ReplicationError         = ReplicationStatus("error")
)

func (s ReplicationStatus) String() string {
	return string(s)
}

// IsReplicationCapable is true for the states a resource can only be in if it has a
// replication relationship; disabled, not-capable and unset are not capable.
func (s ReplicationStatus) IsReplicationCapable() bool {
	switch s {
	case ReplicationEnabled, ReplicationFailoverError, ReplicationFailedOver:
		return true
	}
	return false
}

func (s ReplicationStatus) In(statuses ...ReplicationStatus) bool {
	for _, status := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type MigrationStatus string

const (
	MigrationStatusNone      = MigrationStatus("")
	MigrationStatusStarting  = MigrationStatus("starting")
	MigrationStatusMigrating = MigrationStatus("migrating")
	MigrationStatusSuccess   = MigrationStatus("success")
	MigrationStatusError     = MigrationStatus("error")
)

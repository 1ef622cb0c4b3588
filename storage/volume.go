// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import (
	"time"

	"github.com/brunoga/deep"
)

// VolumeType names a class of volume and the extra specs the scheduler matches against
// backend capabilities.
type VolumeType struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	ExtraSpecs map[string]string `json:"extraSpecs,omitempty"`
}

// IsReplicated reports whether the type asks for a replicated volume.
func (t *VolumeType) IsReplicated() bool {
	if t == nil {
		return false
	}
	return t.ExtraSpecs[ReplicationEnabledSpec] == "<is> True"
}

const ReplicationEnabledSpec = "replication_enabled"

type Volume struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Size is in GiB.
	Size   int          `json:"size"`
	Status VolumeStatus `json:"status"`
	// PreviousStatus is empty unless Status is transiently overridden.
	PreviousStatus    VolumeStatus      `json:"previousStatus,omitempty"`
	ReplicationStatus ReplicationStatus `json:"replicationStatus,omitempty"`
	Host              string            `json:"host,omitempty"`
	ClusterName       string            `json:"clusterName,omitempty"`
	GroupID           string            `json:"groupID,omitempty"`
	AvailabilityZone  string            `json:"availabilityZone,omitempty"`
	VolumeType        *VolumeType       `json:"volumeType,omitempty"`
	MigrationStatus   MigrationStatus   `json:"migrationStatus,omitempty"`
	// ReplicationDriverData is opaque to everything but the driver.
	ReplicationDriverData string    `json:"replicationDriverData,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// SmartCopy returns a deep copy, so callers may hand volumes to drivers or store them
// without sharing maps.
func (v *Volume) SmartCopy() *Volume {
	return deep.MustCopy(v)
}

// SetStatus moves the volume to status and records the old status as the restore point.
// Nothing is recorded when the status does not change, so repeated calls are idempotent.
func (v *Volume) SetStatus(status VolumeStatus) {
	if v.Status == status {
		return
	}
	v.PreviousStatus = v.Status
	v.Status = status
}

// RestoreStatus returns the volume to its restore point, or to fallback if none is set,
// and clears the restore point.
func (v *Volume) RestoreStatus(fallback VolumeStatus) {
	if v.PreviousStatus != "" {
		v.Status = v.PreviousStatus
	} else {
		v.Status = fallback
	}
	v.PreviousStatus = ""
}

// BackendHost returns the "host@backend" the volume lives on.
func (v *Volume) BackendHost() string {
	return ExtractHost(v.Host, HostLevelBackend, false)
}

type Snapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	VolumeID  string         `json:"volumeID"`
	Size      int            `json:"size"`
	Status    SnapshotStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (s *Snapshot) SmartCopy() *Snapshot {
	return deep.MustCopy(s)
}

type Group struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Status            GroupStatus       `json:"status"`
	GroupTypeID       string            `json:"groupTypeID"`
	VolumeTypeIDs     []string          `json:"volumeTypeIDs,omitempty"`
	ReplicationStatus ReplicationStatus `json:"replicationStatus,omitempty"`
	Host              string            `json:"host,omitempty"`
	ClusterName       string            `json:"clusterName,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

func (g *Group) SmartCopy() *Group {
	return deep.MustCopy(g)
}

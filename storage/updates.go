// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

// VolumeFields is a sparse set of volume changes returned by a driver. Nil fields are
// left untouched.
type VolumeFields struct {
	Status                *VolumeStatus      `json:"status,omitempty"`
	ReplicationStatus     *ReplicationStatus `json:"replicationStatus,omitempty"`
	ReplicationDriverData *string            `json:"replicationDriverData,omitempty"`
	Host                  *string            `json:"host,omitempty"`
}

// VolumeUpdate carries the changes a driver wants applied to one volume.
type VolumeUpdate struct {
	VolumeID string       `json:"volumeID"`
	Updates  VolumeFields `json:"updates"`
}

type GroupFields struct {
	Status            *GroupStatus       `json:"status,omitempty"`
	ReplicationStatus *ReplicationStatus `json:"replicationStatus,omitempty"`
}

type GroupUpdate struct {
	GroupID string      `json:"groupID"`
	Updates GroupFields `json:"updates"`
}

// FailoverResult is what a driver returns from a successful FailoverHost.
type FailoverResult struct {
	ActiveBackendID string         `json:"activeBackendID"`
	VolumeUpdates   []VolumeUpdate `json:"volumeUpdates,omitempty"`
	GroupUpdates    []GroupUpdate  `json:"groupUpdates,omitempty"`
}

// VolumeUpdatesByID indexes the volume updates, keeping the last entry for a repeated id.
func (r *FailoverResult) VolumeUpdatesByID() map[string]VolumeFields {
	updates := make(map[string]VolumeFields, len(r.VolumeUpdates))
	for _, u := range r.VolumeUpdates {
		updates[u.VolumeID] = u.Updates
	}
	return updates
}

// SetsError reports whether the update puts the volume into the error status.
func (f VolumeFields) SetsError() bool {
	return f.Status != nil && *f.Status == VolumeStatusError
}

// Apply copies the set fields onto the volume. An error update always records the status
// the volume had before it as the restore point, even when that status was error.
func (f VolumeFields) Apply(v *Volume) {
	if f.SetsError() {
		v.PreviousStatus = v.Status
		v.Status = VolumeStatusError
	} else if f.Status != nil {
		v.Status = *f.Status
	}
	if f.ReplicationStatus != nil {
		v.ReplicationStatus = *f.ReplicationStatus
	}
	if f.ReplicationDriverData != nil {
		v.ReplicationDriverData = *f.ReplicationDriverData
	}
	if f.Host != nil {
		v.Host = *f.Host
	}
}

func (f GroupFields) Apply(g *Group) {
	if f.Status != nil {
		g.Status = *f.Status
	}
	if f.ReplicationStatus != nil {
		g.ReplicationStatus = *f.ReplicationStatus
	}
}

// Ptr returns a pointer to v, for building sparse updates.
func Ptr[T any](v T) *T {
	return &v
}

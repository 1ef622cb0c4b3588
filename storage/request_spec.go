// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import "github.com/brunoga/deep"

// RequestSpec describes what a placement request needs from a backend.
type RequestSpec struct {
	VolumeID         string      `json:"volumeID"`
	Size             int         `json:"size"`
	AvailabilityZone string      `json:"availabilityZone,omitempty"`
	VolumeType       *VolumeType `json:"volumeType,omitempty"`
	GroupID          string      `json:"groupID,omitempty"`
	// SourceHost is set for migrations, where the current backend must not be chosen.
	SourceHost string `json:"sourceHost,omitempty"`
	// ExtendBy is the growth in GiB requested by an extend; capacity checks use it
	// instead of Size.
	ExtendBy int `json:"extendBy,omitempty"`
}

func (r *RequestSpec) SmartCopy() *RequestSpec {
	return deep.MustCopy(r)
}

// RetryInfo records the backends already tried for one request.
type RetryInfo struct {
	NumAttempts int      `json:"numAttempts"`
	Backends    []string `json:"backends,omitempty"`
	Exception   string   `json:"exception,omitempty"`
}

// FilterProperties carries per-request scheduler state between attempts.
type FilterProperties struct {
	Retry *RetryInfo `json:"retry,omitempty"`
	// IgnoreBackends lists backend hosts excluded outright.
	IgnoreBackends []string `json:"ignoreBackends,omitempty"`
}

func NewRequestSpecForVolume(v *Volume) *RequestSpec {
	spec := &RequestSpec{
		VolumeID:         v.ID,
		Size:             v.Size,
		AvailabilityZone: v.AvailabilityZone,
		GroupID:          v.GroupID,
	}
	if v.VolumeType != nil {
		spec.VolumeType = deep.MustCopy(v.VolumeType)
	}
	return spec
}

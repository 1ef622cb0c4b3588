// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package persistentstore

import (
	"slices"
	"strings"

	"github.com/openblock/blockd/storage"
)

// matchHost compares a record's host or cluster string against a filter value. A filter
// naming a pool must match exactly; otherwise the comparison is at backend level, so
// "node1@lvm" matches "node1@lvm#pool-a".
func matchHost(filter, value string) bool {
	if filter == "" {
		return true
	}
	if strings.Contains(filter, "#") {
		return filter == value
	}
	return storage.ExtractHost(value, storage.HostLevelBackend, false) == filter
}

// VolumeFilter selects volumes. Zero fields match everything.
type VolumeFilter struct {
	Host        string
	ClusterName string
	GroupID     string
	Statuses    []storage.VolumeStatus
	IDs         []string
}

func (f *VolumeFilter) Matches(v *storage.Volume) bool {
	if f == nil {
		return true
	}
	if f.Host != "" && !matchHost(f.Host, v.Host) {
		return false
	}
	if f.ClusterName != "" && !matchHost(f.ClusterName, v.ClusterName) {
		return false
	}
	if f.GroupID != "" && f.GroupID != v.GroupID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, v.Status) {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, v.ID) {
		return false
	}
	return true
}

type SnapshotFilter struct {
	VolumeIDs []string
}

func (f *SnapshotFilter) Matches(s *storage.Snapshot) bool {
	if f == nil {
		return true
	}
	return len(f.VolumeIDs) == 0 || slices.Contains(f.VolumeIDs, s.VolumeID)
}

type GroupFilter struct {
	Host        string
	ClusterName string
}

func (f *GroupFilter) Matches(g *storage.Group) bool {
	if f == nil {
		return true
	}
	if f.Host != "" && !matchHost(f.Host, g.Host) {
		return false
	}
	if f.ClusterName != "" && !matchHost(f.ClusterName, g.ClusterName) {
		return false
	}
	return true
}

type ServiceFilter struct {
	Binary      string
	Host        string
	ClusterName string
	Disabled    *bool
	Frozen      *bool
}

func (f *ServiceFilter) Matches(s *storage.Service) bool {
	if f == nil {
		return true
	}
	if f.Binary != "" && f.Binary != s.Binary {
		return false
	}
	if f.Host != "" && !matchHost(f.Host, s.Host) {
		return false
	}
	if f.ClusterName != "" && !matchHost(f.ClusterName, s.ClusterName) {
		return false
	}
	if f.Disabled != nil && *f.Disabled != s.Disabled {
		return false
	}
	if f.Frozen != nil && *f.Frozen != s.Frozen {
		return false
	}
	return true
}

type ClusterFilter struct {
	Binary string
}

func (f *ClusterFilter) Matches(c *storage.Cluster) bool {
	return f == nil || f.Binary == "" || f.Binary == c.Binary
}

type MessageFilter struct {
	ResourceUUID string
	EventID      string
}

func (f *MessageFilter) Matches(m *storage.Message) bool {
	if f == nil {
		return true
	}
	if f.ResourceUUID != "" && f.ResourceUUID != m.ResourceUUID {
		return false
	}
	if f.EventID != "" && f.EventID != m.EventID {
		return false
	}
	return true
}

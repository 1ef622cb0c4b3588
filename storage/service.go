// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import (
	"time"

	"github.com/brunoga/deep"
)

// Service is one worker process: a volume manager for one backend, or a scheduler.
type Service struct {
	ID          string `json:"id"`
	Host        string `json:"host"`
	Binary      string `json:"binary"`
	ClusterName string `json:"clusterName,omitempty"`
	// ActiveBackendID is the replication target currently serving the backend; empty means
	// the primary.
	ActiveBackendID   string            `json:"activeBackendID,omitempty"`
	ReplicationStatus ReplicationStatus `json:"replicationStatus,omitempty"`
	Disabled          bool              `json:"disabled"`
	DisabledReason    string            `json:"disabledReason,omitempty"`
	Frozen            bool              `json:"frozen"`
	AvailabilityZone  string            `json:"availabilityZone,omitempty"`
	RPCVersion        string            `json:"rpcVersion,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (s *Service) SmartCopy() *Service {
	return deep.MustCopy(s)
}

// IsUp reports whether the service heartbeat is recent enough.
func (s *Service) IsUp(now time.Time, downTime time.Duration) bool {
	last := s.UpdatedAt
	if last.IsZero() {
		last = s.CreatedAt
	}
	return now.Sub(last) <= downTime
}

// IsClustered reports whether replication state for this service lives on a Cluster.
func (s *Service) IsClustered() bool {
	return s.ClusterName != ""
}

// Cluster groups redundant services that share a backend identity.
type Cluster struct {
	Name              string            `json:"name"`
	Binary            string            `json:"binary"`
	ActiveBackendID   string            `json:"activeBackendID,omitempty"`
	ReplicationStatus ReplicationStatus `json:"replicationStatus,omitempty"`
	Disabled          bool              `json:"disabled"`
	DisabledReason    string            `json:"disabledReason,omitempty"`
	Frozen            bool              `json:"frozen"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (c *Cluster) SmartCopy() *Cluster {
	return deep.MustCopy(c)
}

// ReplicationState is the part of a Service or Cluster the failover state machine writes.
type ReplicationState struct {
	ReplicationStatus ReplicationStatus `json:"replicationStatus"`
	ActiveBackendID   string            `json:"activeBackendID"`
	Disabled          bool              `json:"disabled"`
	DisabledReason    string            `json:"disabledReason"`
}

func (s *Service) ApplyReplicationState(state ReplicationState) {
	s.ReplicationStatus = state.ReplicationStatus
	s.ActiveBackendID = state.ActiveBackendID
	s.Disabled = state.Disabled
	s.DisabledReason = state.DisabledReason
}

func (c *Cluster) ApplyReplicationState(state ReplicationState) {
	c.ReplicationStatus = state.ReplicationStatus
	c.ActiveBackendID = state.ActiveBackendID
	c.Disabled = state.Disabled
	c.DisabledReason = state.DisabledReason
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

// Package rpcapi holds the typed clients and wire arguments of the volume manager and
// scheduler RPC APIs. Servers register handlers under the method names declared here.
package rpcapi

import (
	"time"

	"github.com/openblock/blockd/storage"
)

// Volume manager methods.
const (
	MethodCreateVolume               = "create_volume"
	MethodDeleteVolume               = "delete_volume"
	MethodExtendVolume               = "extend_volume"
	MethodMigrateVolume              = "migrate_volume"
	MethodAcceptMigration            = "accept_migration"
	MethodRetypeVolume               = "retype"
	MethodCreateSnapshot             = "create_snapshot"
	MethodDeleteSnapshot             = "delete_snapshot"
	MethodFailoverHost               = "failover_host"
	MethodFailover                   = "failover"
	MethodFailoverCompleted          = "failover_completed"
	MethodFreezeHost                 = "freeze_host"
	MethodThawHost                   = "thaw_host"
	MethodGetCapabilities            = "get_capabilities"
	MethodGetManageableVolumes       = "get_manageable_volumes"
	MethodGetManageableSnapshots     = "get_manageable_snapshots"
	MethodPublishServiceCapabilities = "publish_service_capabilities"
)

// Scheduler methods. Placement methods share names with the volume manager's.
const (
	MethodUpdateServiceCapabilities = "update_service_capabilities"
	MethodNotifyServiceCapabilities = "notify_service_capabilities"
	MethodGetPools                  = "get_pools"
)

type VolumeArgs struct {
	VolumeID string `json:"volumeID"`
}

type CreateVolumeArgs struct {
	VolumeID         string                    `json:"volumeID"`
	RequestSpec      *storage.RequestSpec      `json:"requestSpec"`
	FilterProperties *storage.FilterProperties `json:"filterProperties,omitempty"`
}

type ExtendVolumeArgs struct {
	VolumeID    string               `json:"volumeID"`
	NewSize     int                  `json:"newSize"`
	RequestSpec *storage.RequestSpec `json:"requestSpec,omitempty"`
}

type MigrateVolumeArgs struct {
	VolumeID    string               `json:"volumeID"`
	DestHost    string               `json:"destHost"`
	RequestSpec *storage.RequestSpec `json:"requestSpec,omitempty"`
}

type RetypeVolumeArgs struct {
	VolumeID    string               `json:"volumeID"`
	NewType     *storage.VolumeType  `json:"newType"`
	RequestSpec *storage.RequestSpec `json:"requestSpec,omitempty"`
}

type SnapshotArgs struct {
	VolumeID   string `json:"volumeID"`
	SnapshotID string `json:"snapshotID"`
}

type FailoverArgs struct {
	SecondaryBackendID string `json:"secondaryBackendID"`
}

// FailoverCompletedArgs carries the replication state the cluster ended up in.
type FailoverCompletedArgs struct {
	State storage.ReplicationState `json:"state"`
}

// AcceptMigrationArgs asks a destination backend to take a copy of a volume.
type AcceptMigrationArgs struct {
	Volume   *storage.Volume `json:"volume"`
	DestHost string          `json:"destHost"`
}

type ManageableArgs struct {
	Options *storage.ManageableListOptions `json:"options,omitempty"`
}

// CapabilitiesReport is one volume service's periodic capability report.
type CapabilitiesReport struct {
	ServiceName  string                `json:"serviceName"`
	Host         string                `json:"host"`
	ClusterName  string                `json:"clusterName,omitempty"`
	Capabilities *storage.Capabilities `json:"capabilities"`
	Timestamp    time.Time             `json:"timestamp"`
}

type GetPoolsArgs struct {
	// Backend restricts the listing to one backend host when set.
	Backend string `json:"backend,omitempty"`
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storage

import (
	"strconv"
	"time"

	"github.com/brunoga/deep"
)

// Capacity values are in GiB. Drivers that cannot measure a pool report one of these
// sentinels instead.
const (
	CapacityInfinite = float64(-1)
	CapacityUnknown  = float64(-2)
)

// Capabilities is the periodic report a volume service sends to the scheduler.
type Capabilities struct {
	BackendName        string             `json:"backendName"`
	VendorName         string             `json:"vendorName"`
	DriverVersion      string             `json:"driverVersion"`
	StorageProtocol    string             `json:"storageProtocol"`
	ReplicationEnabled bool               `json:"replicationEnabled"`
	ReplicationTargets []string           `json:"replicationTargets,omitempty"`
	Pools              []PoolCapabilities `json:"pools"`
}

type PoolCapabilities struct {
	PoolName                 string            `json:"poolName"`
	TotalCapacityGB          float64           `json:"totalCapacityGB"`
	FreeCapacityGB           float64           `json:"freeCapacityGB"`
	ProvisionedCapacityGB    float64           `json:"provisionedCapacityGB"`
	AllocatedCapacityGB      float64           `json:"allocatedCapacityGB"`
	ReservedPercentage       int               `json:"reservedPercentage"`
	ThinProvisioningSupport  bool              `json:"thinProvisioningSupport"`
	ThickProvisioningSupport bool              `json:"thickProvisioningSupport"`
	MaxOverSubscriptionRatio float64           `json:"maxOverSubscriptionRatio"`
	TotalVolumes             int               `json:"totalVolumes"`
	Capabilities             map[string]string `json:"capabilities,omitempty"`
}

func (c *Capabilities) SmartCopy() *Capabilities {
	return deep.MustCopy(c)
}

// Attributes flattens the backend and pool capabilities into the key space that volume
// type extra specs are matched against. Pool keys win over backend keys.
func (p *PoolCapabilities) Attributes(backend *Capabilities) map[string]string {
	attrs := map[string]string{
		"vendor_name":                 backend.VendorName,
		"driver_version":              backend.DriverVersion,
		"storage_protocol":            backend.StorageProtocol,
		"volume_backend_name":         backend.BackendName,
		"pool_name":                   p.PoolName,
		ReplicationEnabledSpec:        strconv.FormatBool(backend.ReplicationEnabled),
		"thin_provisioning_support":   strconv.FormatBool(p.ThinProvisioningSupport),
		"thick_provisioning_support":  strconv.FormatBool(p.ThickProvisioningSupport),
		"reserved_percentage":         strconv.Itoa(p.ReservedPercentage),
		"max_over_subscription_ratio": strconv.FormatFloat(p.MaxOverSubscriptionRatio, 'f', -1, 64),
		"total_volumes":               strconv.Itoa(p.TotalVolumes),
	}
	if p.TotalCapacityGB >= 0 {
		attrs["total_capacity_gb"] = strconv.FormatFloat(p.TotalCapacityGB, 'f', -1, 64)
	}
	if p.FreeCapacityGB >= 0 {
		attrs["free_capacity_gb"] = strconv.FormatFloat(p.FreeCapacityGB, 'f', -1, 64)
	}
	for k, v := range p.Capabilities {
		attrs[k] = v
	}
	return attrs
}

// PoolInfo is one pool as the scheduler currently sees it.
type PoolInfo struct {
	// Name is the full pool host, host@backend#pool.
	Name         string            `json:"name"`
	BackendName  string            `json:"backendName"`
	Capabilities PoolCapabilities  `json:"capabilities"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

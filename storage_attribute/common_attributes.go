// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storageattribute

import "strings"

const (
	// CapabilitiesScope prefixes extra specs that are matched against backend capabilities.
	CapabilitiesScope = "capabilities"

	VolumeBackendName  = "volume_backend_name"
	ReplicationEnabled = "replication_enabled"
	StorageProtocol    = "storage_protocol"
	VendorName         = "vendor_name"
	ThinProvisioning   = "thin_provisioning_support"
)

// CapabilityKey returns the capability name an extra-spec key refers to. Unscoped keys
// and "capabilities:" keys apply; keys in any other scope do not.
func CapabilityKey(key string) (string, bool) {
	scope, name, scoped := strings.Cut(key, ":")
	if !scoped {
		return key, true
	}
	if scope != CapabilitiesScope || name == "" {
		return "", false
	}
	return name, true
}

// Mismatch describes the first extra spec that a set of capabilities fails.
type Mismatch struct {
	Key     string
	Request Request
	// Offer is nil when the capability was not reported.
	Offer Offer
}

// MatchCapabilities checks every request against the reported capabilities. A capability
// that is not reported fails its request.
func MatchCapabilities(requests map[string]Request, capabilities map[string]string) (bool, *Mismatch) {
	for key, req := range requests {
		raw, ok := capabilities[key]
		if !ok {
			return false, &Mismatch{Key: key, Request: req}
		}
		o := NewOffer(raw)
		if !o.Matches(req) {
			return false, &Mismatch{Key: key, Request: req, Offer: o}
		}
	}
	return true, nil
}

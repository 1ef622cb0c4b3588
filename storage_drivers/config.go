// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package storagedrivers

// Storage driver names specified in the backend config.
const (
	FakeStorageDriverName = "fake"
)

// Backend option keys shared by all drivers.
const (
	OptionLimitVolumeSize = "limit_volume_size"
	OptionVendorName      = "vendor_name"
	OptionStorageProtocol = "storage_protocol"
)

const DefaultStorageProtocol = "iSCSI"

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-version"
)

const (
	/* Misc. orchestrator constants */
	OrchestratorName       = "blockd"
	orchestratorVersion    = "26.10.0"
	OrchestratorAPIVersion = "1"

	/* Service binaries and RPC topics */
	VolumeBinary    = OrchestratorName + "-volume"
	SchedulerBinary = OrchestratorName + "-scheduler"
	VolumeTopic     = VolumeBinary
	SchedulerTopic  = SchedulerBinary

	// VolumeRPCAPIVersion is the newest volume manager RPC API this build speaks.
	VolumeRPCAPIVersion = "3.17"
	// SchedulerRPCAPIVersion is the newest scheduler RPC API this build speaks.
	SchedulerRPCAPIVersion = "3.12"
	// ClusterFailoverRPCVersion is the oldest volume RPC API able to fail over a whole cluster.
	ClusterFailoverRPCVersion = "3.5"

	// FailbackTarget is the secondary backend ID that means "return to the primary".
	FailbackTarget = "default"

	/* Service state */
	DisabledReasonFrozen     = "frozen"
	DisabledReasonFailedOver = "failed-over"

	/* REST frontend constants */
	MaxRESTRequestSize = 1048576
	HTTPTimeout        = 90 * time.Second

	/* Persistent store constants */
	PersistentStoreBootstrapAttempts = 30
	PersistentStoreBootstrapTimeout  = PersistentStoreBootstrapAttempts * time.Second
	PersistentStoreTimeout           = 10 * time.Second

	/* Volume defaults */
	DefaultVolumeSizeGiB = 1
)

var (
	// BuildHash is the git hash the binary was built from
	BuildHash = "unknown"

	// BuildType is the type of build: custom, beta or stable
	BuildType = "custom"

	// BuildTypeRev is the revision of the build
	BuildTypeRev = "0"

	// BuildTime is the time the binary was built
	BuildTime = "unknown"

	OrchestratorVersion = version.Must(version.NewVersion(buildVersion()))

	/* API Server URLs */
	BaseURL     = "/" + OrchestratorName + "/v" + OrchestratorAPIVersion
	VersionURL  = BaseURL + "/version"
	ServiceURL  = BaseURL + "/service"
	ClusterURL  = BaseURL + "/cluster"
	VolumeURL   = BaseURL + "/volume"
	SnapshotURL = BaseURL + "/snapshot"
	GroupURL    = BaseURL + "/group"
	MessageURL  = BaseURL + "/message"
	PoolURL     = BaseURL + "/pool"
	BackendURL  = BaseURL + "/backend"
	MetricsURL  = "/metrics"
)

func buildVersion() string {
	switch BuildType {
	case "stable":
		return orchestratorVersion
	case "custom":
		return fmt.Sprintf("%v-%v+%v", orchestratorVersion, BuildType, BuildHash)
	default:
		return fmt.Sprintf("%v-%v.%v+%v", orchestratorVersion, BuildType, BuildTypeRev, BuildHash)
	}
}

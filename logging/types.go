// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package logging

import (
	log "github.com/sirupsen/logrus"
)

const (
	ContextKeyRequestID     ContextKey = "requestID"
	ContextKeyRequestSource ContextKey = "requestSource"
	ContextKeyWorkflow      ContextKey = "workflow"
	ContextKeyLogLayer      ContextKey = "logLayer"
	ContextKeyAudit         ContextKey = "audit"

	ContextSourceREST     = "REST"
	ContextSourceRPC      = "RPC"
	ContextSourceCLI      = "CLI"
	ContextSourceInternal = "Internal"
	ContextSourcePeriodic = "Periodic"

	AuditRESTAccess = AuditEvent("rest")
	AuditAdminOp    = AuditEvent("admin")
)

// ContextKey is used for context.Context value. The value requires a key that is not primitive type.
type ContextKey string

type LogFields = log.Fields

type WorkflowCategory string

func (w WorkflowCategory) String() string {
	return string(w)
}

type WorkflowOperation string

func (w WorkflowOperation) String() string {
	return string(w)
}

type Workflow struct {
	Category  WorkflowCategory
	Operation WorkflowOperation
}

func (w Workflow) String() string {
	if w.Category == "" {
		return ""
	}
	return w.Category.String() + "=" + w.Operation.String()
}

type LogLayer string

func (l LogLayer) String() string {
	return string(l)
}

const (
	LogLayerCore            = LogLayer("core")
	LogLayerScheduler       = LogLayer("scheduler")
	LogLayerVolumeManager   = LogLayer("volume_manager")
	LogLayerRPC             = LogLayer("rpc")
	LogLayerRESTFrontend    = LogLayer("rest_frontend")
	LogLayerPersistentStore = LogLayer("persistent_store")
	LogLayerFakeDriver      = LogLayer("fake_driver")
	LogLayerCLI             = LogLayer("cli")
	LogLayerNone            = LogLayer("")
)

const (
	CategoryCore      = WorkflowCategory("core")
	CategoryVolume    = WorkflowCategory("volume")
	CategoryService   = WorkflowCategory("service")
	CategoryScheduler = WorkflowCategory("scheduler")
	CategoryMessage   = WorkflowCategory("message")
	CategorySnapshot  = WorkflowCategory("snapshot")
	CategoryGroup     = WorkflowCategory("group")
	CategoryCluster   = WorkflowCategory("cluster")
	CategoryBackend   = WorkflowCategory("backend")
	CategoryREST      = WorkflowCategory("rest")

	OpBootstrap          = WorkflowOperation("bootstrap")
	OpCreate             = WorkflowOperation("create")
	OpGet                = WorkflowOperation("get")
	OpList               = WorkflowOperation("list")
	OpDelete             = WorkflowOperation("delete")
	OpExtend             = WorkflowOperation("extend")
	OpMigrate            = WorkflowOperation("migrate")
	OpRetype             = WorkflowOperation("retype")
	OpFailover           = WorkflowOperation("failover")
	OpFreeze             = WorkflowOperation("freeze")
	OpThaw               = WorkflowOperation("thaw")
	OpReportCapabilities = WorkflowOperation("report_capabilities")
	OpSchedule           = WorkflowOperation("schedule")
	OpCleanup            = WorkflowOperation("cleanup")
	OpTraceAPI           = WorkflowOperation("trace_api")
	OpGetPools           = WorkflowOperation("get_pools")
	OpListManageable     = WorkflowOperation("list_manageable")
)

var (
	WorkflowNone = Workflow{}

	WorkflowCoreBootstrap     = Workflow{CategoryCore, OpBootstrap}
	WorkflowVolumeCreate      = Workflow{CategoryVolume, OpCreate}
	WorkflowVolumeGet         = Workflow{CategoryVolume, OpGet}
	WorkflowVolumeList        = Workflow{CategoryVolume, OpList}
	WorkflowVolumeDelete      = Workflow{CategoryVolume, OpDelete}
	WorkflowVolumeExtend      = Workflow{CategoryVolume, OpExtend}
	WorkflowVolumeMigrate     = Workflow{CategoryVolume, OpMigrate}
	WorkflowVolumeRetype      = Workflow{CategoryVolume, OpRetype}
	WorkflowServiceFailover   = Workflow{CategoryService, OpFailover}
	WorkflowServiceFreeze     = Workflow{CategoryService, OpFreeze}
	WorkflowServiceThaw       = Workflow{CategoryService, OpThaw}
	WorkflowServiceList       = Workflow{CategoryService, OpList}
	WorkflowServiceGet        = Workflow{CategoryService, OpGet}
	WorkflowServiceReport     = Workflow{CategoryService, OpReportCapabilities}
	WorkflowSchedulerSchedule = Workflow{CategoryScheduler, OpSchedule}
	WorkflowMessageCleanup    = Workflow{CategoryMessage, OpCleanup}
	WorkflowMessageList       = Workflow{CategoryMessage, OpList}
	WorkflowMessageGet        = Workflow{CategoryMessage, OpGet}
	WorkflowMessageDelete     = Workflow{CategoryMessage, OpDelete}
	WorkflowSnapshotCreate    = Workflow{CategorySnapshot, OpCreate}
	WorkflowSnapshotList      = Workflow{CategorySnapshot, OpList}
	WorkflowSnapshotDelete    = Workflow{CategorySnapshot, OpDelete}
	WorkflowGroupList         = Workflow{CategoryGroup, OpList}
	WorkflowClusterList       = Workflow{CategoryCluster, OpList}
	WorkflowSchedulerGetPools = Workflow{CategoryScheduler, OpGetPools}
	WorkflowBackendManageable = Workflow{CategoryBackend, OpListManageable}
	WorkflowRESTTraceAPI      = Workflow{CategoryREST, OpTraceAPI}
)

type AuditEvent string

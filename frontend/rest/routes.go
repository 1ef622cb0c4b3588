// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
)

type Route struct {
	Name        string
	Method      string
	Pattern     string
	Workflow    Workflow
	Middleware  []mux.MiddlewareFunc
	HandlerFunc http.HandlerFunc
}

type Routes []Route

var controllerRoutes = Routes{
	Route{
		"GetVersion",
		"GET",
		config.VersionURL,
		WorkflowNone,
		nil,
		GetVersion,
	},
	Route{
		"ListServices",
		"GET",
		config.ServiceURL,
		WorkflowServiceList,
		nil,
		ListServices,
	},
	Route{
		"GetService",
		"GET",
		config.ServiceURL + "/{host}",
		WorkflowServiceGet,
		nil,
		GetService,
	},
	Route{
		"FailoverService",
		"POST",
		config.ServiceURL + "/{host}/failover",
		WorkflowServiceFailover,
		nil,
		FailoverService,
	},
	Route{
		"FreezeService",
		"POST",
		config.ServiceURL + "/{host}/freeze",
		WorkflowServiceFreeze,
		nil,
		FreezeService,
	},
	Route{
		"ThawService",
		"POST",
		config.ServiceURL + "/{host}/thaw",
		WorkflowServiceThaw,
		nil,
		ThawService,
	},
	Route{
		"ListClusters",
		"GET",
		config.ClusterURL,
		WorkflowClusterList,
		nil,
		ListClusters,
	},
	Route{
		"FailoverCluster",
		"POST",
		config.ClusterURL + "/{cluster}/failover",
		WorkflowServiceFailover,
		nil,
		FailoverCluster,
	},
	Route{
		"FreezeCluster",
		"POST",
		config.ClusterURL + "/{cluster}/freeze",
		WorkflowServiceFreeze,
		nil,
		FreezeCluster,
	},
	Route{
		"ThawCluster",
		"POST",
		config.ClusterURL + "/{cluster}/thaw",
		WorkflowServiceThaw,
		nil,
		ThawCluster,
	},
	Route{
		"AddVolume",
		"POST",
		config.VolumeURL,
		WorkflowVolumeCreate,
		nil,
		AddVolume,
	},
	Route{
		"ListVolumes",
		"GET",
		config.VolumeURL,
		WorkflowVolumeList,
		nil,
		ListVolumes,
	},
	Route{
		"GetVolume",
		"GET",
		config.VolumeURL + "/{volume}",
		WorkflowVolumeGet,
		nil,
		GetVolume,
	},
	Route{
		"DeleteVolume",
		"DELETE",
		config.VolumeURL + "/{volume}",
		WorkflowVolumeDelete,
		nil,
		DeleteVolume,
	},
	Route{
		"ExtendVolume",
		"POST",
		config.VolumeURL + "/{volume}/extend",
		WorkflowVolumeExtend,
		nil,
		ExtendVolume,
	},
	Route{
		"MigrateVolume",
		"POST",
		config.VolumeURL + "/{volume}/migrate",
		WorkflowVolumeMigrate,
		nil,
		MigrateVolume,
	},
	Route{
		"RetypeVolume",
		"POST",
		config.VolumeURL + "/{volume}/retype",
		WorkflowVolumeRetype,
		nil,
		RetypeVolume,
	},
	Route{
		"AddSnapshot",
		"POST",
		config.SnapshotURL,
		WorkflowSnapshotCreate,
		nil,
		AddSnapshot,
	},
	Route{
		"ListSnapshots",
		"GET",
		config.SnapshotURL,
		WorkflowSnapshotList,
		nil,
		ListSnapshots,
	},
	Route{
		"DeleteSnapshot",
		"DELETE",
		config.SnapshotURL + "/{snapshot}",
		WorkflowSnapshotDelete,
		nil,
		DeleteSnapshot,
	},
	Route{
		"ListGroups",
		"GET",
		config.GroupURL,
		WorkflowGroupList,
		nil,
		ListGroups,
	},
	Route{
		"ListMessages",
		"GET",
		config.MessageURL,
		WorkflowMessageList,
		nil,
		ListMessages,
	},
	Route{
		"GetMessage",
		"GET",
		config.MessageURL + "/{message}",
		WorkflowMessageGet,
		nil,
		GetMessage,
	},
	Route{
		"DeleteMessage",
		"DELETE",
		config.MessageURL + "/{message}",
		WorkflowMessageDelete,
		nil,
		DeleteMessage,
	},
	Route{
		"ListPools",
		"GET",
		config.PoolURL,
		WorkflowSchedulerGetPools,
		nil,
		ListPools,
	},
	Route{
		"ListManageable",
		"GET",
		config.BackendURL + "/{host}/manageable",
		WorkflowBackendManageable,
		nil,
		ListManageable,
	},
}

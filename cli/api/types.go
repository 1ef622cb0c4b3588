// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package api

import (
	"github.com/openblock/blockd/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MultipleVolumeResponse struct {
	Items []*storage.Volume `json:"items"`
}

type MultipleSnapshotResponse struct {
	Items []*storage.Snapshot `json:"items"`
}

type MultipleServiceResponse struct {
	Items []*storage.Service `json:"items"`
}

type MultipleClusterResponse struct {
	Items []*storage.Cluster `json:"items"`
}

type MultipleGroupResponse struct {
	Items []*storage.Group `json:"items"`
}

type MultipleMessageResponse struct {
	Items []*storage.Message `json:"items"`
}

type MultiplePoolResponse struct {
	Items []*storage.PoolInfo `json:"items"`
}

type MultipleManageableVolumeResponse struct {
	Items []*storage.ManageableVolume `json:"items"`
}

type MultipleManageableSnapshotResponse struct {
	Items []*storage.ManageableSnapshot `json:"items"`
}

type ClientVersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

type VersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion,omitempty"`
	GoVersion  string `json:"goVersion"`
}

type VersionsResponse struct {
	Server *VersionResponse       `json:"server,omitempty"`
	Client *ClientVersionResponse `json:"client"`
}

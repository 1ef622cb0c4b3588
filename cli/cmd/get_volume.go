// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var (
	volumeHost    string
	volumeCluster string
	volumeGroup   string
	volumeStatus  []string
)

func init() {
	getCmd.AddCommand(getVolumeCmd)
	getVolumeCmd.Flags().StringVar(&volumeHost, "host", "", "Limit the list to volumes on a host")
	getVolumeCmd.Flags().StringVar(&volumeCluster, "cluster", "", "Limit the list to volumes on a cluster")
	getVolumeCmd.Flags().StringVar(&volumeGroup, "group", "", "Limit the list to volumes in a group")
	getVolumeCmd.Flags().StringSliceVar(&volumeStatus, "status", nil, "Limit the list to volumes in these statuses")
}

var getVolumeCmd = &cobra.Command{
	Use:     "volume [<id>...]",
	Short:   "Get one or more volumes from blockd",
	Aliases: []string{"v", "volumes"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return volumeList(args)
	},
}

func volumeList(volumeIDs []string) error {
	var volumes []*storage.Volume

	if len(volumeIDs) == 0 {
		var err error
		if volumes, err = GetVolumes(); err != nil {
			return err
		}
	}

	for _, volumeID := range volumeIDs {
		volume, err := GetVolume(volumeID)
		if err != nil {
			return err
		}
		volumes = append(volumes, volume)
	}

	WriteVolumes(volumes)
	return nil
}

func GetVolumes() ([]*storage.Volume, error) {
	query := url.Values{}
	if volumeHost != "" {
		query.Set("host", volumeHost)
	}
	if volumeCluster != "" {
		query.Set("cluster", volumeCluster)
	}
	if volumeGroup != "" {
		query.Set("group", volumeGroup)
	}
	for _, status := range volumeStatus {
		query.Add("status", status)
	}

	u := BaseURL() + "/volume"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var listVolumesResponse rest.ListVolumesResponse
	if err := invoke(http.MethodGet, u, nil, http.StatusOK, &listVolumesResponse); err != nil {
		return nil, fmt.Errorf("could not get volumes; %v", err)
	}
	return listVolumesResponse.Volumes, nil
}

func GetVolume(volumeID string) (*storage.Volume, error) {
	var getVolumeResponse rest.GetVolumeResponse
	err := invoke(http.MethodGet, BaseURL()+"/volume/"+volumeID, nil, http.StatusOK, &getVolumeResponse)
	if err != nil {
		return nil, fmt.Errorf("could not get volume %s; %v", volumeID, err)
	}
	return getVolumeResponse.Volume, nil
}

func WriteVolumes(volumes []*storage.Volume) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleVolumeResponse{Items: volumes})
	case FormatYAML:
		WriteYAML(api.MultipleVolumeResponse{Items: volumes})
	case FormatName:
		writeVolumeIDs(volumes)
	case FormatWide:
		writeWideVolumeTable(volumes)
	default:
		writeVolumeTable(volumes)
	}
}

func gibString(sizeGiB int) string {
	return humanize.IBytes(uint64(sizeGiB) << 30)
}

func writeVolumeTable(volumes []*storage.Volume) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Size", "Status", "Replication", "Host"})

	for _, volume := range volumes {
		table.Append([]string{
			volume.ID,
			volume.Name,
			gibString(volume.Size),
			string(volume.Status),
			string(volume.ReplicationStatus),
			volume.Host,
		})
	}

	table.Render()
}

func writeWideVolumeTable(volumes []*storage.Volume) {
	table := tablewriter.NewWriter(os.Stdout)
	header := []string{
		"ID",
		"Name",
		"Size",
		"Status",
		"Replication",
		"Host",
		"Cluster",
		"Group",
		"Zone",
		"Type",
		"Migration",
		"Age",
	}
	table.SetHeader(header)

	for _, volume := range volumes {
		volumeType := ""
		if volume.VolumeType != nil {
			volumeType = volume.VolumeType.Name
		}
		table.Append([]string{
			volume.ID,
			volume.Name,
			gibString(volume.Size),
			string(volume.Status),
			string(volume.ReplicationStatus),
			volume.Host,
			volume.ClusterName,
			volume.GroupID,
			volume.AvailabilityZone,
			volumeType,
			string(volume.MigrationStatus),
			humanize.Time(volume.CreatedAt),
		})
	}

	table.Render()
}

func writeVolumeIDs(volumes []*storage.Volume) {
	for _, volume := range volumes {
		fmt.Println(volume.ID)
	}
}

// sizeString renders a pool capacity that may be infinite or unknown.
func sizeString(gib float64) string {
	switch gib {
	case storage.CapacityInfinite:
		return "infinite"
	case storage.CapacityUnknown:
		return "unknown"
	}
	return strconv.FormatFloat(gib, 'f', -1, 64) + " GiB"
}

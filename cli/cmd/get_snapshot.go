// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var snapshotVolume string

func init() {
	getCmd.AddCommand(getSnapshotCmd)
	getSnapshotCmd.Flags().StringVar(&snapshotVolume, "volume", "", "Limit the list to snapshots of a volume")
}

var getSnapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Short:   "Get snapshots from blockd",
	Aliases: []string{"s", "snap", "snapshots"},
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := GetSnapshots(snapshotVolume)
		if err != nil {
			return err
		}
		WriteSnapshots(snapshots)
		return nil
	},
}

func GetSnapshots(volumeID string) ([]*storage.Snapshot, error) {
	u := BaseURL() + "/snapshot"
	if volumeID != "" {
		u += "?" + url.Values{"volume": {volumeID}}.Encode()
	}

	var response rest.ListSnapshotsResponse
	if err := invoke(http.MethodGet, u, nil, http.StatusOK, &response); err != nil {
		return nil, fmt.Errorf("could not get snapshots; %v", err)
	}
	return response.Snapshots, nil
}

func WriteSnapshots(snapshots []*storage.Snapshot) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleSnapshotResponse{Items: snapshots})
	case FormatYAML:
		WriteYAML(api.MultipleSnapshotResponse{Items: snapshots})
	case FormatName:
		for _, snapshot := range snapshots {
			fmt.Println(snapshot.ID)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Volume", "Size", "Status", "Age"})
		for _, snapshot := range snapshots {
			table.Append([]string{
				snapshot.ID,
				snapshot.Name,
				snapshot.VolumeID,
				gibString(snapshot.Size),
				string(snapshot.Status),
				humanize.Time(snapshot.CreatedAt),
			})
		}
		table.Render()
	}
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var (
	manageableSnapshots bool
	manageableMarker    string
	manageableLimit     int
	manageableOffset    int
	manageableSortKeys  []string
	manageableSortDirs  []string
)

func init() {
	getCmd.AddCommand(getManageableCmd)
	getManageableCmd.Flags().BoolVar(&manageableSnapshots, "snapshots", false, "List snapshots instead of volumes")
	getManageableCmd.Flags().StringVar(&manageableMarker, "marker", "", "Start listing after this reference")
	getManageableCmd.Flags().IntVar(&manageableLimit, "limit", 0, "Maximum number of entries")
	getManageableCmd.Flags().IntVar(&manageableOffset, "offset", 0, "Number of entries to skip")
	getManageableCmd.Flags().StringSliceVar(&manageableSortKeys, "sort-key", nil, "Sort keys (reference, size)")
	getManageableCmd.Flags().StringSliceVar(&manageableSortDirs, "sort-dir", nil, "Sort directions (asc, desc)")
}

var getManageableCmd = &cobra.Command{
	Use:     "manageable <host>",
	Short:   "List the volumes or snapshots on a backend that blockd could manage",
	Aliases: []string{"unmanaged"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := GetManageable(args[0])
		if err != nil {
			return err
		}
		if manageableSnapshots {
			WriteManageableSnapshots(response.Snapshots)
		} else {
			WriteManageableVolumes(response.Volumes)
		}
		return nil
	},
}

func GetManageable(host string) (*rest.ListManageableResponse, error) {
	query := url.Values{}
	if manageableSnapshots {
		query.Set("type", "snapshot")
	}
	if manageableMarker != "" {
		query.Set("marker", manageableMarker)
	}
	if manageableLimit > 0 {
		query.Set("limit", strconv.Itoa(manageableLimit))
	}
	if manageableOffset > 0 {
		query.Set("offset", strconv.Itoa(manageableOffset))
	}
	if len(manageableSortKeys) > 0 {
		query.Set("sort_keys", strings.Join(manageableSortKeys, ","))
	}
	if len(manageableSortDirs) > 0 {
		query.Set("sort_dirs", strings.Join(manageableSortDirs, ","))
	}

	u := BaseURL() + "/backend/" + url.PathEscape(host) + "/manageable"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	response := &rest.ListManageableResponse{}
	if err := invoke(http.MethodGet, u, nil, http.StatusOK, response); err != nil {
		return nil, fmt.Errorf("could not list manageable resources on %s; %v", host, err)
	}
	return response, nil
}

func safeString(safe bool, reason string) string {
	if safe {
		return "yes"
	}
	return "no: " + reason
}

func WriteManageableVolumes(volumes []*storage.ManageableVolume) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleManageableVolumeResponse{Items: volumes})
	case FormatYAML:
		WriteYAML(api.MultipleManageableVolumeResponse{Items: volumes})
	case FormatName:
		for _, volume := range volumes {
			fmt.Println(volume.Reference)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Reference", "Size", "Safe To Manage", "Existing ID"})
		for _, volume := range volumes {
			table.Append([]string{
				volume.Reference,
				gibString(volume.Size),
				safeString(volume.SafeToManage, volume.ReasonNotSafe),
				volume.ExistingID,
			})
		}
		table.Render()
	}
}

func WriteManageableSnapshots(snapshots []*storage.ManageableSnapshot) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleManageableSnapshotResponse{Items: snapshots})
	case FormatYAML:
		WriteYAML(api.MultipleManageableSnapshotResponse{Items: snapshots})
	case FormatName:
		for _, snapshot := range snapshots {
			fmt.Println(snapshot.Reference)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Reference", "Source", "Size", "Safe To Manage", "Existing ID"})
		for _, snapshot := range snapshots {
			table.Append([]string{
				snapshot.Reference,
				snapshot.SourceReference,
				gibString(snapshot.Size),
				safeString(snapshot.SafeToManage, snapshot.ReasonNotSafe),
				snapshot.ExistingID,
			})
		}
		table.Render()
	}
}

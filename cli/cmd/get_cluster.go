// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

func init() {
	getCmd.AddCommand(getClusterCmd)
	getCmd.AddCommand(getGroupCmd)
}

var getClusterCmd = &cobra.Command{
	Use:     "cluster",
	Short:   "Get the clusters known to blockd",
	Aliases: []string{"clusters"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var response rest.ListClustersResponse
		if err := invoke(http.MethodGet, BaseURL()+"/cluster", nil, http.StatusOK, &response); err != nil {
			return fmt.Errorf("could not get clusters; %v", err)
		}
		WriteClusters(response.Clusters)
		return nil
	},
}

var getGroupCmd = &cobra.Command{
	Use:     "group",
	Short:   "Get the volume groups known to blockd",
	Aliases: []string{"groups"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var response rest.ListGroupsResponse
		if err := invoke(http.MethodGet, BaseURL()+"/group", nil, http.StatusOK, &response); err != nil {
			return fmt.Errorf("could not get groups; %v", err)
		}
		WriteGroups(response.Groups)
		return nil
	},
}

func WriteClusters(clusters []*storage.Cluster) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleClusterResponse{Items: clusters})
	case FormatYAML:
		WriteYAML(api.MultipleClusterResponse{Items: clusters})
	case FormatName:
		for _, cluster := range clusters {
			fmt.Println(cluster.Name)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Binary", "Active Backend", "Replication", "Disabled", "Frozen"})
		for _, cluster := range clusters {
			table.Append([]string{
				cluster.Name,
				cluster.Binary,
				cluster.ActiveBackendID,
				string(cluster.ReplicationStatus),
				strconv.FormatBool(cluster.Disabled),
				strconv.FormatBool(cluster.Frozen),
			})
		}
		table.Render()
	}
}

func WriteGroups(groups []*storage.Group) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultipleGroupResponse{Items: groups})
	case FormatYAML:
		WriteYAML(api.MultipleGroupResponse{Items: groups})
	case FormatName:
		for _, group := range groups {
			fmt.Println(group.ID)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Status", "Replication", "Host"})
		for _, group := range groups {
			table.Append([]string{
				group.ID,
				group.Name,
				string(group.Status),
				string(group.ReplicationStatus),
				group.Host,
			})
		}
		table.Render()
	}
}

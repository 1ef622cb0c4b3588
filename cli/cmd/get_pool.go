// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var poolBackend string

func init() {
	getCmd.AddCommand(getPoolCmd)
	getPoolCmd.Flags().StringVar(&poolBackend, "backend", "", "Limit the list to the pools of one backend")
}

var getPoolCmd = &cobra.Command{
	Use:     "pool",
	Short:   "Get the pools the scheduler knows about",
	Aliases: []string{"p", "pools"},
	RunE: func(cmd *cobra.Command, args []string) error {
		u := BaseURL() + "/pool"
		if poolBackend != "" {
			u += "?" + url.Values{"backend": {poolBackend}}.Encode()
		}

		var response rest.ListPoolsResponse
		if err := invoke(http.MethodGet, u, nil, http.StatusOK, &response); err != nil {
			return fmt.Errorf("could not get pools; %v", err)
		}
		WritePools(response.Pools)
		return nil
	},
}

func WritePools(pools []*storage.PoolInfo) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(api.MultiplePoolResponse{Items: pools})
	case FormatYAML:
		WriteYAML(api.MultiplePoolResponse{Items: pools})
	case FormatName:
		for _, pool := range pools {
			fmt.Println(pool.Name)
		}
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Backend", "Total", "Free", "Provisioned", "Volumes"})
		for _, pool := range pools {
			table.Append([]string{
				pool.Name,
				pool.BackendName,
				sizeString(pool.Capabilities.TotalCapacityGB),
				sizeString(pool.Capabilities.FreeCapacityGB),
				sizeString(pool.Capabilities.ProvisionedCapacityGB),
				strconv.Itoa(pool.Capabilities.TotalVolumes),
			})
		}
		table.Render()
	}
}

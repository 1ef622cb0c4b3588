// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/frontend/rest"
)

var clientOnly bool

func init() {
	RootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&clientOnly, "client", false, "Client version only (no server required).")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of blockd",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if !clientOnly {
			err = discoverServer(cmd)
		}
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		versions := api.VersionsResponse{Client: getClientVersion()}

		if !clientOnly {
			serverVersion, err := getVersionFromRest()
			if err != nil {
				return err
			}
			versions.Server = &api.VersionResponse{
				Version:    serverVersion.Version,
				APIVersion: serverVersion.APIVersion,
				GoVersion:  serverVersion.GoVersion,
			}
		}

		writeVersions(versions)
		return nil
	},
}

func getVersionFromRest() (*rest.GetVersionResponse, error) {
	response := &rest.GetVersionResponse{}
	if err := invoke(http.MethodGet, BaseURL()+"/version", nil, http.StatusOK, response); err != nil {
		return nil, fmt.Errorf("could not get server version; %v", err)
	}
	return response, nil
}

func getClientVersion() *api.ClientVersionResponse {
	return &api.ClientVersionResponse{
		Version:   config.OrchestratorVersion.String(),
		GoVersion: runtime.Version(),
	}
}

func writeVersions(versions api.VersionsResponse) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(versions)
	case FormatYAML:
		WriteYAML(versions)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		if versions.Server == nil {
			table.SetHeader([]string{"Client Version"})
			table.Append([]string{versions.Client.Version})
		} else {
			table.SetHeader([]string{"Server Version", "Client Version"})
			table.Append([]string{versions.Server.Version, versions.Client.Version})
		}
		table.Render()
	}
}

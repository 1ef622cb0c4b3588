// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/openblock/blockd/frontend/rest"
)

var (
	extendSize     int
	migrateHost    string
	retypeTypeName string
	retypeSpecs    []string
)

func init() {
	RootCmd.AddCommand(updateCmd)
	updateCmd.AddCommand(updateVolumeCmd)
	updateVolumeCmd.AddCommand(extendVolumeCmd)
	updateVolumeCmd.AddCommand(migrateVolumeCmd)
	updateVolumeCmd.AddCommand(retypeVolumeCmd)

	extendVolumeCmd.Flags().IntVar(&extendSize, "size", 0, "New size in GiB")
	_ = extendVolumeCmd.MarkFlagRequired("size")
	migrateVolumeCmd.Flags().StringVar(&migrateHost, "host", "", "Destination host@backend#pool")
	_ = migrateVolumeCmd.MarkFlagRequired("host")
	addVolumeTypeFlags(retypeVolumeCmd, &retypeTypeName, &retypeSpecs)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Modify a resource in blockd",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

var updateVolumeCmd = &cobra.Command{
	Use:     "volume",
	Short:   "Extend, migrate or retype a volume",
	Aliases: []string{"v"},
}

var extendVolumeCmd = &cobra.Command{
	Use:   "extend <id>",
	Short: "Grow a volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return volumeAction(cmd, args[0], "extend", &rest.ExtendVolumeRequest{NewSize: extendSize})
	},
}

var migrateVolumeCmd = &cobra.Command{
	Use:   "migrate <id>",
	Short: "Move a volume to another backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return volumeAction(cmd, args[0], "migrate", &rest.MigrateVolumeRequest{Host: migrateHost})
	},
}

var retypeVolumeCmd = &cobra.Command{
	Use:   "retype <id>",
	Short: "Change a volume's type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		volumeType, err := parseVolumeType(retypeTypeName, retypeSpecs)
		if err != nil {
			return err
		}
		return volumeAction(cmd, args[0], "retype", &rest.RetypeVolumeRequest{VolumeType: volumeType})
	},
}

func volumeAction(cmd *cobra.Command, volumeID, action string, request interface{}) error {
	u := BaseURL() + "/volume/" + volumeID + "/" + action

	var response rest.VolumeActionResponse
	if err := invoke(http.MethodPost, u, request, http.StatusAccepted, &response); err != nil {
		return fmt.Errorf("could not %s volume %s; %v", action, volumeID, err)
	}

	cmd.Printf("%s of volume %s accepted.\n", action, volumeID)
	return nil
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var forceDelete bool

func init() {
	RootCmd.AddCommand(deleteCmd)
	deleteCmd.AddCommand(deleteVolumeCmd)
	deleteCmd.AddCommand(deleteSnapshotCmd)
	deleteCmd.AddCommand(deleteMessageCmd)
	deleteVolumeCmd.Flags().BoolVar(&forceDelete, "yes", false, "Delete without asking for confirmation")
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove one or more resources from blockd",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

var deleteVolumeCmd = &cobra.Command{
	Use:     "volume <id>...",
	Short:   "Delete one or more volumes",
	Aliases: []string{"v", "volumes"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !forceDelete {
			confirmed, err := getUserConfirmation(fmt.Sprintf("Delete %d volume(s) and their data?", len(args)), cmd)
			if err != nil {
				return err
			} else if !confirmed {
				cmd.Println("Delete cancelled.")
				return nil
			}
		}
		return deleteResources("volume", args)
	},
}

var deleteSnapshotCmd = &cobra.Command{
	Use:     "snapshot <id>...",
	Short:   "Delete one or more snapshots",
	Aliases: []string{"s", "snapshots"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteResources("snapshot", args)
	},
}

var deleteMessageCmd = &cobra.Command{
	Use:     "message <id>...",
	Short:   "Delete one or more user messages",
	Aliases: []string{"m", "messages"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteResources("message", args)
	},
}

func deleteResources(resource string, ids []string) error {
	for _, id := range ids {
		if err := invoke(http.MethodDelete, BaseURL()+"/"+resource+"/"+id, nil, http.StatusOK, nil); err != nil {
			return fmt.Errorf("could not delete %s %s; %v", resource, id, err)
		}
	}
	return nil
}

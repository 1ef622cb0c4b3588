// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openblock/blockd/core"
	"github.com/openblock/blockd/frontend/rest"
	"github.com/openblock/blockd/storage"
)

var (
	createSize       int
	createZone       string
	createGroup      string
	createTypeName   string
	createExtraSpecs []string
)

func init() {
	RootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createVolumeCmd)
	createCmd.AddCommand(createSnapshotCmd)

	createVolumeCmd.Flags().IntVar(&createSize, "size", 1, "Size in GiB")
	createVolumeCmd.Flags().StringVar(&createZone, "zone", "", "Availability zone")
	createVolumeCmd.Flags().StringVar(&createGroup, "group", "", "Volume group")
	addVolumeTypeFlags(createVolumeCmd, &createTypeName, &createExtraSpecs)
}

func addVolumeTypeFlags(cmd *cobra.Command, name *string, specs *[]string) {
	cmd.Flags().StringVar(name, "type", "", "Volume type name")
	cmd.Flags().StringSliceVar(specs, "spec", nil, "Volume type extra spec as key=value")
}

// parseVolumeType builds a volume type from --type and --spec flags; no flags means no type.
func parseVolumeType(name string, specs []string) (*storage.VolumeType, error) {
	if name == "" && len(specs) == 0 {
		return nil, nil
	}
	volumeType := &storage.VolumeType{Name: name, ExtraSpecs: make(map[string]string, len(specs))}
	for _, spec := range specs {
		key, value, ok := strings.Cut(spec, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("extra spec %q is not key=value", spec)
		}
		volumeType.ExtraSpecs[key] = value
	}
	return volumeType, nil
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a resource to blockd",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

var createVolumeCmd = &cobra.Command{
	Use:     "volume <name>",
	Short:   "Create a volume",
	Aliases: []string{"v"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		volumeType, err := parseVolumeType(createTypeName, createExtraSpecs)
		if err != nil {
			return err
		}
		request := &core.VolumeCreateRequest{
			Name:             args[0],
			Size:             createSize,
			AvailabilityZone: createZone,
			VolumeType:       volumeType,
			GroupID:          createGroup,
		}

		var response rest.AddVolumeResponse
		if err = invoke(http.MethodPost, BaseURL()+"/volume", request, http.StatusCreated, &response); err != nil {
			return fmt.Errorf("could not create volume %s; %v", args[0], err)
		}

		WriteVolumes([]*storage.Volume{response.Volume})
		return nil
	},
}

var createSnapshotCmd = &cobra.Command{
	Use:     "snapshot <volume> <name>",
	Short:   "Snapshot a volume",
	Aliases: []string{"s", "snap"},
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := &rest.AddSnapshotRequest{VolumeID: args[0], Name: args[1]}

		var response rest.AddSnapshotResponse
		if err := invoke(http.MethodPost, BaseURL()+"/snapshot", request, http.StatusCreated, &response); err != nil {
			return fmt.Errorf("could not snapshot volume %s; %v", args[0], err)
		}

		WriteSnapshots([]*storage.Snapshot{response.Snapshot})
		return nil
	},
}

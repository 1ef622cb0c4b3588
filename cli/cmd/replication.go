// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/frontend/rest"
)

var failoverTarget string

func init() {
	for _, c := range []*cobra.Command{failoverCmd, freezeCmd, thawCmd} {
		RootCmd.AddCommand(c)
		c.AddCommand(newReplicationTargetCmd(c.Name(), "service"))
		c.AddCommand(newReplicationTargetCmd(c.Name(), "cluster"))
	}
	failoverCmd.PersistentFlags().StringVar(&failoverTarget, "target", "",
		"Replication target to fail over to, empty for the backend's default; "+
			config.FailbackTarget+" fails back to the primary")
}

var failoverCmd = &cobra.Command{
	Use:   "failover",
	Short: "Fail a backend over to a replication target, or back to its primary",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Stop management operations on a backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

var thawCmd = &cobra.Command{
	Use:   "thaw",
	Short: "Resume management operations on a frozen backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return discoverServer(cmd)
	},
}

// newReplicationTargetCmd builds "<action> service <host>" and "<action> cluster <name>".
func newReplicationTargetCmd(action, kind string) *cobra.Command {
	arg := "<host>"
	if kind == "cluster" {
		arg = "<name>"
	}
	return &cobra.Command{
		Use:   kind + " " + arg,
		Short: fmt.Sprintf("Run %s against a %s", action, kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replicationAction(cmd, action, kind, args[0])
		},
	}
}

func replicationAction(cmd *cobra.Command, action, kind, target string) error {
	var request interface{}
	expectedStatus := http.StatusAccepted

	switch action {
	case "failover":
		request = &rest.FailoverRequest{SecondaryBackendID: failoverTarget}
	case "thaw":
		expectedStatus = http.StatusOK
	}

	u := fmt.Sprintf("%s/%s/%s/%s", BaseURL(), kind, url.PathEscape(target), action)
	var response rest.ReplicationActionResponse
	if err := invoke(http.MethodPost, u, request, expectedStatus, &response); err != nil {
		return fmt.Errorf("could not %s %s %s; %v", action, kind, target, err)
	}

	if expectedStatus == http.StatusAccepted {
		cmd.Printf("%s of %s %s accepted.\n", action, kind, target)
	} else {
		cmd.Printf("%s of %s %s complete.\n", action, kind, target)
	}
	return nil
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package main

import (
	"os"

	"github.com/openblock/blockd/cli/cmd"
)

func main() {
	cmd.ExitCode = cmd.ExitCodeSuccess

	if err := cmd.RootCmd.Execute(); err != nil {
		cmd.SetExitCodeFromError(err)
	}

	os.Exit(cmd.ExitCode)
}

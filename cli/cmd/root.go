// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openblock/blockd/cli/api"
	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
)

const (
	FormatJSON = "json"
	FormatName = "name"
	FormatWide = "wide"
	FormatYAML = "yaml"

	DefaultServer = "127.0.0.1:8000"
	ServerEnvVar  = "BLOCKD_SERVER"

	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

var (
	ExitCode int

	Debug        bool
	Server       string
	OutputFormat string
)

var RootCmd = &cobra.Command{
	SilenceUsage: true,
	Use:          "blockctl",
	Short:        "A CLI tool for blockd",
	Long:         `A CLI tool for managing volumes, backends and replication in the blockd block storage service`,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&Debug, "debug", "d", false, "Debug output")
	RootCmd.PersistentFlags().StringVarP(&Server, "server", "s", "",
		"Address/port of blockd REST interface (default "+DefaultServer+")")
	RootCmd.PersistentFlags().StringVarP(&OutputFormat, "output", "o", "",
		"Output format. One of json|yaml|name|wide|ps (default)")
}

// initCmdLogging sends client logs to stderr, at debug level only when asked.
func initCmdLogging() {
	InitLogOutput(os.Stderr)
	if err := InitLogLevel(Debug, "warning"); err != nil {
		Log().WithError(err).Warning("Could not set log level.")
	}
}

// discoverServer picks the REST endpoint: the flag wins over the environment.
func discoverServer(_ *cobra.Command) error {
	initCmdLogging()

	if Server == "" {
		Server = os.Getenv(ServerEnvVar)
	}
	if Server == "" {
		Server = DefaultServer
	}
	if strings.Contains(Server, "/") {
		return fmt.Errorf("server must be a host:port, not %s", Server)
	}

	if Debug {
		fmt.Printf("Server = %s\n", Server)
	}
	return nil
}

func BaseURL() string {
	url := fmt.Sprintf("http://%s%s", Server, config.BaseURL)

	if Debug {
		fmt.Printf("blockd URL: %s\n", url)
	}

	return url
}

func GetErrorFromHTTPResponse(response *http.Response, responseBody []byte) error {
	var errorResponse api.ErrorResponse
	if err := json.Unmarshal(responseBody, &errorResponse); err == nil && errorResponse.Error != "" {
		return fmt.Errorf("%s (%s)", errorResponse.Error, response.Status)
	}
	return errors.New(response.Status)
}

// invoke calls the REST API and decodes the response into out when the status is the
// expected one.
func invoke(method, url string, request interface{}, expectedStatus int, out interface{}) error {
	var body []byte
	if request != nil {
		var err error
		if body, err = json.Marshal(request); err != nil {
			return err
		}
	}

	response, responseBody, err := api.InvokeRESTAPI(method, url, body)
	if err != nil {
		return err
	} else if response.StatusCode != expectedStatus {
		return GetErrorFromHTTPResponse(response, responseBody)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(responseBody, out)
}

func SetExitCodeFromError(err error) {
	ExitCode = GetExitCodeFromError(err)
}

func GetExitCodeFromError(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	// Default to 1 in case we can't determine a process exit code
	code := ExitCodeFailure

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		if ws, ok := exitError.Sys().(syscall.WaitStatus); ok {
			code = ws.ExitStatus()
		}
	}

	return code
}

func getUserConfirmation(s string, cmd *cobra.Command) (bool, error) {
	reader := bufio.NewReader(cmd.InOrStdin())

	for {
		cmd.Printf("%s [y/n]: ", s)

		input, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}

		input = strings.ToLower(strings.TrimSpace(input))

		if input == "y" || input == "yes" {
			return true, nil
		} else if input == "n" || input == "no" {
			return false, nil
		}
	}
}

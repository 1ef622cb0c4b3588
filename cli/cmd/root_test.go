// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package cmd

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/openblock/blockd/logging"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

const testServer = "127.0.0.1:8000"

// withServer points the CLI at a fixed server for the length of a test.
func withServer(t *testing.T) {
	prevServer, prevFormat := Server, OutputFormat
	Server = testServer
	OutputFormat = FormatName
	t.Cleanup(func() {
		Server, OutputFormat = prevServer, prevFormat
	})
}

func TestDiscoverServer(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		env      string
		expected string
		wantErr  bool
	}{
		{"default", "", "", DefaultServer, false},
		{"environment", "", "10.0.0.1:8000", "10.0.0.1:8000", false},
		{"flag wins", "127.0.0.1:9000", "10.0.0.1:8000", "127.0.0.1:9000", false},
		{"URL rejected", "http://127.0.0.1:8000/", "", "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prev := Server
			defer func() { Server = prev }()
			t.Setenv(ServerEnvVar, test.env)
			Server = test.flag

			err := discoverServer(&cobra.Command{})
			InitLogOutput(io.Discard)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, Server)
		})
	}
}

func TestBaseURL(t *testing.T) {
	withServer(t)
	assert.Equal(t, "http://"+testServer+"/blockd/v1", BaseURL())
}

func TestGetErrorFromHTTPResponse(t *testing.T) {
	response := &http.Response{Status: "404 Not Found", StatusCode: http.StatusNotFound}

	err := GetErrorFromHTTPResponse(response, []byte(`{"error":"volume v1 not found"}`))
	assert.EqualError(t, err, "volume v1 not found (404 Not Found)")

	err = GetErrorFromHTTPResponse(response, []byte(`not json`))
	assert.EqualError(t, err, "404 Not Found")

	err = GetErrorFromHTTPResponse(response, []byte(`{}`))
	assert.EqualError(t, err, "404 Not Found")
}

func TestGetExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitCodeSuccess, GetExitCodeFromError(nil))
	assert.Equal(t, ExitCodeFailure, GetExitCodeFromError(errors.New("failed")))

	SetExitCodeFromError(errors.New("failed"))
	assert.Equal(t, ExitCodeFailure, ExitCode)
	SetExitCodeFromError(nil)
	assert.Equal(t, ExitCodeSuccess, ExitCode)
}

func TestGetUserConfirmation(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"y\n", true, false},
		{"YES\n", true, false},
		{"n\n", false, false},
		{"maybe\nno\n", false, false},
		{"", false, true},
	}

	for _, test := range tests {
		t.Run(strings.TrimSpace(test.input), func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(test.input))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			confirmed, err := getUserConfirmation("Continue?", cmd)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, confirmed)
		})
	}
}

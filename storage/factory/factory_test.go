// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package factory

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/utils/errors"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	InitLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestParseBackendConfig(t *testing.T) {
	yamlConfig := `
name: lvm
host: node1
driver: fake
availabilityZone: zone-a
replicationTargets: [lvm-dr]
pools:
  - name: a
    totalCapacityGB: 100
    thinProvisioning: true
`
	backend, err := ParseBackendConfig([]byte(yamlConfig))
	require.NoError(t, err)
	assert.Equal(t, "node1@lvm", backend.ServiceHost())
	assert.Equal(t, []string{"lvm-dr"}, backend.ReplicationTargets)
	require.Len(t, backend.Pools, 1)
	assert.True(t, backend.Pools[0].ThinProvisioning)

	fromJSON, err := ParseBackendConfig([]byte(`{"name":"lvm","host":"node1","driver":"fake"}`))
	require.NoError(t, err)
	assert.Equal(t, "fake", fromJSON.Driver)

	_, err = ParseBackendConfig([]byte("name: [unclosed"))
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestNewDriverForConfig(t *testing.T) {
	ctx := context.Background()
	backend := &config.BackendConfig{
		Name:   "lvm",
		Host:   "node1",
		Driver: "fake",
		Pools:  []config.PoolConfig{{Name: "a", TotalCapacityGB: 100}},
	}

	driver, err := NewDriverForConfig(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, "fake", driver.Name())
	assert.True(t, driver.Initialized())

	backend.Driver = "ontap-san"
	_, err = NewDriverForConfig(ctx, backend)
	assert.True(t, errors.IsUnsupportedError(err))

	backend.Driver = ""
	_, err = NewDriverForConfig(ctx, backend)
	assert.True(t, errors.IsInvalidInputError(err))
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/ghodss/yaml"

	"github.com/openblock/blockd/config"
	. "github.com/openblock/blockd/logging"
	"github.com/openblock/blockd/storage"
	drivers "github.com/openblock/blockd/storage_drivers"
	"github.com/openblock/blockd/storage_drivers/fake"
	"github.com/openblock/blockd/utils/errors"
)

// ParseBackendConfig reads a backend definition in JSON or YAML.
func ParseBackendConfig(data []byte) (*config.BackendConfig, error) {
	configJSON, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.InvalidInputError("invalid config format: %v", err)
	}
	backend := &config.BackendConfig{}
	if err = json.Unmarshal(configJSON, backend); err != nil {
		return nil, errors.InvalidInputError("could not parse backend config: %v", err)
	}
	return backend, nil
}

// NewDriverForConfig creates and initializes the driver a backend config names.
func NewDriverForConfig(ctx context.Context, backend *config.BackendConfig) (driver storage.Driver, err error) {
	// Some drivers may panic during initialize if given invalid parameters,
	// so catch any panics that might occur and return an error.
	defer func() {
		if r := recover(); r != nil {
			Logc(ctx).WithField("stackTrace", string(debug.Stack())).Error("Unable to instantiate driver.")
			driver = nil
			err = fmt.Errorf("unable to instantiate driver: %v", r)
		}
	}()

	if err = drivers.ValidateCommonSettings(ctx, backend); err != nil {
		return nil, err
	}

	switch backend.Driver {
	case drivers.FakeStorageDriverName:
		driver = fake.NewDriver()
	default:
		return nil, errors.UnsupportedError("unknown storage driver: %v", backend.Driver)
	}

	fields := LogFields{"driver": backend.Driver, "backend": backend.ServiceHost()}
	Logc(ctx).WithFields(fields).Debug("Initializing storage driver.")

	if err = driver.Initialize(ctx, backend); err != nil {
		Logc(ctx).WithFields(fields).WithError(err).Error("Could not initialize storage driver.")
		return driver, errors.WrapWithVolumeDriverError(err, "problem initializing storage driver %s", backend.Driver)
	}

	Logc(ctx).WithFields(fields).Info("Storage driver initialized.")
	return driver, nil
}

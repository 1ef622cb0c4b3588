// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	StoreTypeMemory   = "memory"
	StoreTypePostgres = "postgres"

	DefaultAvailabilityZone = "default"
)

var (
	defaultSchedulerFilters  = []string{"AvailabilityZoneFilter", "CapacityFilter", "CapabilitiesFilter", "RetryFilter"}
	defaultSchedulerWeighers = []string{"CapacityWeigher"}
)

// Options is the daemon configuration. Zero values are replaced by defaults in LoadOptions.
type Options struct {
	Log       LogOptions       `yaml:"log"`
	REST      RESTOptions      `yaml:"rest"`
	Store     StoreOptions     `yaml:"store"`
	Scheduler SchedulerOptions `yaml:"scheduler"`
	Service   ServiceOptions   `yaml:"service"`
	RPC       RPCOptions       `yaml:"rpc"`
	Messages  MessageOptions   `yaml:"messages"`
	Backends  []BackendConfig  `yaml:"backends"`
}

type LogOptions struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Debug  bool   `yaml:"debug"`
}

type RESTOptions struct {
	Enabled      bool          `yaml:"enabled"`
	Address      string        `yaml:"address"`
	Port         string        `yaml:"port"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	RateLimit    float64       `yaml:"rate_limit"`
	RateBurst    int           `yaml:"rate_burst"`
}

type StoreOptions struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

type SchedulerOptions struct {
	// DriverInitWaitTime bounds the startup barrier that waits for backend capability reports.
	DriverInitWaitTime time.Duration `yaml:"driver_init_wait_time"`
	// PollInterval is how often the startup barrier checks for capability reports.
	PollInterval                  time.Duration `yaml:"poll_interval"`
	MaxAttempts                   int           `yaml:"max_attempts"`
	DefaultFilters                []string      `yaml:"default_filters"`
	DefaultWeighers               []string      `yaml:"default_weighers"`
	CapacityWeightMultiplier      float64       `yaml:"capacity_weight_multiplier"`
	VolumeNumberWeightMultiplier  float64       `yaml:"volume_number_weight_multiplier"`
	AllocatedCapacityMultiplier   float64       `yaml:"allocated_capacity_weight_multiplier"`
	DefaultAvailabilityZone       string        `yaml:"default_availability_zone"`
	UseVirtualCapacityForWeighing bool          `yaml:"use_virtual_capacity_for_weighing"`
}

type ServiceOptions struct {
	ReportInterval  time.Duration `yaml:"report_interval"`
	ServiceDownTime time.Duration `yaml:"service_down_time"`
	// DriverRetries bounds the retries of a driver call that failed to reach the backend.
	DriverRetries       uint64        `yaml:"driver_retries"`
	DriverRetryInterval time.Duration `yaml:"driver_retry_interval"`
}

type RPCOptions struct {
	ResponseTimeout time.Duration `yaml:"response_timeout"`
	Workers         int           `yaml:"workers"`
}

type MessageOptions struct {
	TTL          time.Duration `yaml:"ttl"`
	ReapInterval time.Duration `yaml:"reap_interval"`
}

// BackendConfig describes one volume service and the driver behind it.
type BackendConfig struct {
	Name               string            `yaml:"name" json:"name"`
	Host               string            `yaml:"host" json:"host"`
	Cluster            string            `yaml:"cluster,omitempty" json:"cluster,omitempty"`
	Driver             string            `yaml:"driver" json:"driver"`
	AvailabilityZone   string            `yaml:"availability_zone" json:"availabilityZone"`
	ReplicationTargets []string          `yaml:"replication_targets,omitempty" json:"replicationTargets,omitempty"`
	Pools              []PoolConfig      `yaml:"pools" json:"pools"`
	Options            map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// ServiceHost returns the "host@backend" string the volume service registers under.
func (b *BackendConfig) ServiceHost() string {
	return b.Host + "@" + b.Name
}

// ClusterName returns the "cluster@backend" string of the service's cluster, or "" for a
// standalone service.
func (b *BackendConfig) ClusterName() string {
	if b.Cluster == "" {
		return ""
	}
	return b.Cluster + "@" + b.Name
}

type PoolConfig struct {
	Name                     string            `yaml:"name" json:"name"`
	TotalCapacityGB          float64           `yaml:"total_capacity_gb" json:"totalCapacityGB"`
	ReservedPercentage       int               `yaml:"reserved_percentage" json:"reservedPercentage"`
	ThinProvisioning         bool              `yaml:"thin_provisioning" json:"thinProvisioning"`
	MaxOverSubscriptionRatio float64           `yaml:"max_over_subscription_ratio" json:"maxOverSubscriptionRatio"`
	Capabilities             map[string]string `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
}

// DefaultOptions returns the options used when no configuration file overrides them.
func DefaultOptions() *Options {
	return &Options{
		Log: LogOptions{
			Level:  "info",
			Format: "text",
		},
		REST: RESTOptions{
			Enabled:      true,
			Address:      "127.0.0.1",
			Port:         "8000",
			WriteTimeout: HTTPTimeout,
			RateLimit:    100,
			RateBurst:    200,
		},
		Store: StoreOptions{
			Type: StoreTypeMemory,
		},
		Scheduler: SchedulerOptions{
			DriverInitWaitTime:           60 * time.Second,
			PollInterval:                 time.Second,
			MaxAttempts:                  3,
			DefaultFilters:               slices.Clone(defaultSchedulerFilters),
			DefaultWeighers:              slices.Clone(defaultSchedulerWeighers),
			CapacityWeightMultiplier:     1.0,
			VolumeNumberWeightMultiplier: -1.0,
			AllocatedCapacityMultiplier:  -1.0,
			DefaultAvailabilityZone:      DefaultAvailabilityZone,
		},
		Service: ServiceOptions{
			ReportInterval:      10 * time.Second,
			ServiceDownTime:     60 * time.Second,
			DriverRetries:       3,
			DriverRetryInterval: time.Second,
		},
		RPC: RPCOptions{
			ResponseTimeout: 60 * time.Second,
			Workers:         16,
		},
		Messages: MessageOptions{
			TTL:          30 * 24 * time.Hour,
			ReapInterval: time.Hour,
		},
	}
}

// LoadOptions reads a YAML options file from fs over the defaults. An empty path returns
// the defaults.
func LoadOptions(fs afero.Fs, path string) (*Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, opts.Validate()
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s; %v", path, err)
	}
	if err = yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("could not parse config file %s; %v", path, err)
	}
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks option ranges and fills per-backend defaults.
func (o *Options) Validate() error {
	switch o.Store.Type {
	case StoreTypeMemory:
	case StoreTypePostgres:
		if o.Store.DSN == "" {
			return fmt.Errorf("store type %s requires a DSN", o.Store.Type)
		}
	default:
		return fmt.Errorf("unknown store type: %s", o.Store.Type)
	}

	if o.Scheduler.MaxAttempts < 1 {
		return fmt.Errorf("scheduler max_attempts must be at least 1, got %d", o.Scheduler.MaxAttempts)
	}
	if o.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler poll_interval must be positive")
	}
	if o.Scheduler.DriverInitWaitTime < 0 {
		return fmt.Errorf("scheduler driver_init_wait_time must not be negative")
	}
	if o.Service.ServiceDownTime <= o.Service.ReportInterval {
		return fmt.Errorf("service_down_time (%v) must be greater than report_interval (%v)",
			o.Service.ServiceDownTime, o.Service.ReportInterval)
	}
	if o.Service.DriverRetryInterval <= 0 {
		return fmt.Errorf("service driver_retry_interval must be positive")
	}
	if o.RPC.ResponseTimeout <= 0 {
		return fmt.Errorf("rpc response_timeout must be positive")
	}
	if o.RPC.Workers < 1 {
		return fmt.Errorf("rpc workers must be at least 1")
	}

	seen := make(map[string]struct{}, len(o.Backends))
	for i := range o.Backends {
		b := &o.Backends[i]
		if b.Name == "" || b.Host == "" {
			return fmt.Errorf("backend %d requires a name and a host", i)
		}
		if strings.ContainsAny(b.Name, "@#") || strings.ContainsAny(b.Host, "@#") {
			return fmt.Errorf("backend %s: name and host must not contain '@' or '#'", b.Name)
		}
		if _, ok := seen[b.ServiceHost()]; ok {
			return fmt.Errorf("backend %s is defined more than once", b.ServiceHost())
		}
		seen[b.ServiceHost()] = struct{}{}
		if b.Driver == "" {
			b.Driver = "fake"
		}
		if b.AvailabilityZone == "" {
			b.AvailabilityZone = o.Scheduler.DefaultAvailabilityZone
		}
		for _, target := range b.ReplicationTargets {
			if target == FailbackTarget {
				return fmt.Errorf("backend %s: %q is reserved and cannot be a replication target",
					b.Name, FailbackTarget)
			}
		}
	}
	return nil
}

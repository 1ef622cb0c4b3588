// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/core"
	"github.com/openblock/blockd/frontend"
	"github.com/openblock/blockd/frontend/rest"
	. "github.com/openblock/blockd/logging"
	persistentstore "github.com/openblock/blockd/persistent_store"
)

// cmdLineArgs holds the flags that override the configuration file.
type cmdLineArgs struct {
	configPath      string
	debug           bool
	logLevel        string
	logFormat       string
	disableAuditLog bool
	address         string
	port            string
	enableREST      bool
	storeType       string
	dsn             string
}

func newFlagSet(args *cmdLineArgs) *flag.FlagSet {
	fs := flag.NewFlagSet(config.OrchestratorName, flag.ContinueOnError)

	fs.StringVar(&args.configPath, "config", "", "Path to the YAML configuration file")

	// Logging
	fs.BoolVar(&args.debug, "debug", false, "Enable debugging output")
	fs.StringVar(&args.logLevel, "log_level", "info", "Logging level (trace, debug, info, warn, error, fatal)")
	fs.StringVar(&args.logFormat, "log_format", "text", "Logging format (text, json)")
	fs.BoolVar(&args.disableAuditLog, "disable_audit_log", false, "Disable the audit log")

	// HTTP REST interface
	fs.StringVar(&args.address, "address", "127.0.0.1", "Admin HTTP API address")
	fs.StringVar(&args.port, "port", "8000", "Admin HTTP API port")
	fs.BoolVar(&args.enableREST, "rest", true, "Enable HTTP REST interface")

	// Persistence
	fs.StringVar(&args.storeType, "store", config.StoreTypeMemory,
		"Persistent store type ("+config.StoreTypeMemory+", "+config.StoreTypePostgres+")")
	fs.StringVar(&args.dsn, "dsn", "", "Postgres connection string")

	return fs
}

// buildOptions loads the configuration file and lays explicitly set flags over it.
func buildOptions(fs afero.Fs, flags *flag.FlagSet, args *cmdLineArgs) (*config.Options, error) {
	opts, err := config.LoadOptions(fs, args.configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("debug") {
		opts.Log.Debug = args.debug
	}
	if flags.Changed("log_level") {
		opts.Log.Level = args.logLevel
	}
	if flags.Changed("log_format") {
		opts.Log.Format = args.logFormat
	}
	if flags.Changed("address") {
		opts.REST.Address = args.address
	}
	if flags.Changed("port") {
		opts.REST.Port = args.port
	}
	if flags.Changed("rest") {
		opts.REST.Enabled = args.enableREST
	}
	if flags.Changed("store") {
		opts.Store.Type = args.storeType
	}
	if flags.Changed("dsn") {
		opts.Store.DSN = args.dsn
	}

	return opts, opts.Validate()
}

func newStoreClient(ctx context.Context, opts *config.StoreOptions) (persistentstore.Client, error) {
	switch opts.Type {
	case config.StoreTypePostgres:
		Logc(ctx).Debug("Using the Postgres store client.")
		return persistentstore.NewPostgresClient(ctx, opts.DSN)
	case config.StoreTypeMemory:
		Logc(ctx).Warning("Using the in-memory store client; state is lost on restart.")
		return persistentstore.NewInMemoryClient(), nil
	}
	return nil, fmt.Errorf("unknown store type: %s", opts.Type)
}

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	args := &cmdLineArgs{}
	flags := newFlagSet(args)
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	opts, err := buildOptions(afero.NewOsFs(), flags, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err = InitLoggingForDaemon(opts.Log.Format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err = InitLogLevel(opts.Log.Debug, opts.Log.Level); err != nil {
		Log().WithError(err).Fatal("Failed to initialize logging.")
	}
	InitAuditLogger(args.disableAuditLog)

	flags.Visit(func(f *flag.Flag) {
		Log().WithFields(LogFields{
			"name":  f.Name,
			"value": f.Value,
		}).Debug("Flag")
	})

	Log().WithFields(LogFields{
		"version":    config.OrchestratorVersion.String(),
		"build_hash": config.BuildHash,
		"binary":     os.Args[0],
		"store":      opts.Store.Type,
		"backends":   len(opts.Backends),
	}).Info("Running blockd.")

	ctx := context.Background()

	storeClient, err := newStoreClient(ctx, &opts.Store)
	if err != nil {
		Log().WithError(err).Fatal("Unable to create the store client.")
	}

	orchestrator, err := core.NewBlockOrchestrator(opts, storeClient)
	if err != nil {
		Log().WithError(err).Fatal("Unable to create the orchestrator.")
	}

	frontends := make([]frontend.Plugin, 0)
	if opts.REST.Enabled {
		if opts.REST.Port == "" {
			Log().Warning("HTTP REST interface will not be available (port not specified).")
		} else {
			httpServer := rest.NewHTTPServer(orchestrator, opts.REST.Address, opts.REST.Port,
				opts.REST.WriteTimeout, opts.REST.RateLimit, opts.REST.RateBurst)
			frontends = append(frontends, httpServer)
			Log().WithField("name", httpServer.GetName()).Info("Added frontend.")
		}
	}

	// Frontends answer NotReady until bootstrap completes.
	for _, f := range frontends {
		if err = f.Activate(); err != nil {
			Log().WithError(err).Fatal("Unable to activate frontend.")
		}
	}
	if err = orchestrator.Bootstrap(ctx); err != nil {
		Log().WithError(err).Error("Orchestrator bootstrap failed.")
	}

	// Register and wait for a shutdown signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	Log().Info("Shutting down.")
	for _, f := range frontends {
		if err = f.Deactivate(); err != nil {
			Log().WithField("name", f.GetName()).WithError(err).Warning("Frontend did not stop cleanly.")
		}
	}
	if err = orchestrator.Stop(ctx); err != nil {
		Log().WithError(err).Warning("Orchestrator did not stop cleanly.")
	}
	if err = storeClient.Stop(); err != nil {
		Log().WithError(err).Warning("Store client did not stop cleanly.")
	}
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/core"
	. "github.com/openblock/blockd/logging"
)

var orchestrator core.Orchestrator

type APIServerHTTP struct {
	server *http.Server
}

func NewHTTPServer(
	p core.Orchestrator, address, port string, writeTimeout time.Duration, rateLimit float64, rateBurst int,
) *APIServerHTTP {
	orchestrator = p

	apiServer := &APIServerHTTP{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%s", address, port),
			Handler:      NewRouter(rateLimit, rateBurst),
			ReadTimeout:  config.HTTPTimeout,
			WriteTimeout: writeTimeout,
		},
	}

	Log().WithField("address", apiServer.server.Addr).Info("Initializing HTTP REST frontend.")

	return apiServer
}

func (s *APIServerHTTP) Activate() error {
	go func() {
		Log().WithField("address", s.server.Addr).Info("Activating HTTP REST frontend.")

		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			Log().WithField("address", s.server.Addr).Info("HTTP REST frontend server has closed.")
		} else if err != nil {
			Log().Fatal(err)
		}
	}()
	return nil
}

func (s *APIServerHTTP) Deactivate() error {
	Log().WithField("address", s.server.Addr).Info("Deactivating HTTP REST frontend.")
	ctx, cancel := context.WithTimeout(context.Background(), config.HTTPTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *APIServerHTTP) GetName() string {
	return "HTTP REST"
}

func (s *APIServerHTTP) Version() string {
	return config.OrchestratorAPIVersion
}

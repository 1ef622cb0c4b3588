// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openblock/blockd/config"
	"github.com/openblock/blockd/utils/errors"
)

var (
	scheduleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "scheduler",
			Name:      "operations_total",
			Help:      "The total number of placement decisions",
		},
		[]string{"operation", "result"},
	)
	poolFreeCapacityGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "scheduler",
			Name:      "pool_free_capacity_gib",
			Help:      "Free capacity last reported by each pool",
		},
		[]string{"backend", "pool"},
	)
	poolTotalCapacityGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "scheduler",
			Name:      "pool_total_capacity_gib",
			Help:      "Total capacity last reported by each pool",
		},
		[]string{"backend", "pool"},
	)
	backendsWithoutCapabilitiesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "scheduler",
			Name:      "backends_without_capabilities",
			Help:      "Active volume services that have not reported capabilities",
		},
	)
)

const (
	resultSuccess   = "success"
	resultNoBackend = "no_valid_backend"
	resultFailure   = "failure"
)

func scheduleResult(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.IsNoValidBackendError(err):
		return resultNoBackend
	}
	return resultFailure
}

// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openblock/blockd/config"
)

var (
	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Name:      "build_info",
			Help:      "blockd build and release information",
		},
		[]string{"revision", "version", "build_type"},
	)
	failoverOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.OrchestratorName,
			Name:      "failover_operations_total",
			Help:      "The total number of backend failovers and failbacks by outcome",
		},
		[]string{"outcome"},
	)
	failoverVolumeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.OrchestratorName,
			Name:      "failover_volume_errors_total",
			Help:      "The total number of volumes left in error by a failover",
		},
	)
	servicesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Name:      "service_count",
			Help:      "The total number of volume services by replication status",
		},
		[]string{"replication_status", "disabled"},
	)
	volumesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Name:      "volume_count",
			Help:      "The total number of volumes",
		},
		[]string{"backend", "status"},
	)
	volumesTotalGiBGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Name:      "volume_total_gib",
			Help:      "The total size of all volumes",
		},
	)
	operationDurationInMsSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  config.OrchestratorName,
			Subsystem:  "core",
			Name:       "operation_duration_milliseconds",
			Help:       "The duration of operations by type and success",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"operation", "success"},
	)
)

// Failover outcomes.
const (
	outcomeFailedOver    = "failed_over"
	outcomeFailedBack    = "failed_back"
	outcomeInvalidTarget = "invalid_target"
	outcomeDriverError   = "driver_error"
)

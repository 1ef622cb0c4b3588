// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openblock/blockd/config"
)

const (
	deliveryCast = "cast"
	deliveryCall = "call"
)

var (
	rpcMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "rpc",
			Name:      "messages_total",
			Help:      "The total number of RPC messages dispatched to servers",
		},
		[]string{"topic", "method", "delivery", "success"},
	)
	rpcDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "rpc",
			Name:      "dispatch_duration_milliseconds",
			Help:      "The time spent running RPC handlers",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"topic", "method"},
	)
	rpcQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.OrchestratorName,
			Subsystem: "rpc",
			Name:      "queued_casts",
			Help:      "The number of casts waiting for their server",
		},
		[]string{"topic"},
	)
)

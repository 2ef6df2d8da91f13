package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreWrites tracks runs written
	StoreWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "manifold_store_writes_total",
			Help: "Total number of runs written to the store",
		},
	)

	// StoreReads tracks reads by result
	StoreReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifold_store_reads_total",
			Help: "Total number of store reads by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// StoreErrors tracks store operation errors
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manifold_store_errors_total",
			Help: "Total number of store operation errors",
		},
		[]string{"operation"}, // "save", "get", "delete"
	)
)

package fileio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var shardsOpened = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nova",
	Subsystem: "fileio",
	Name:      "shards_opened_total",
	Help:      "Number of dataset shards opened for reading, by storage backend.",
}, []string{"backend"})

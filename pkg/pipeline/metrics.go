package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var recordsMaterialized = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nova",
	Subsystem: "pipeline",
	Name:      "records_materialized_total",
	Help:      "Number of records materialized by local collection runs, by dataset kind.",
}, []string{"kind"})

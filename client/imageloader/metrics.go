package imageloader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tripplanner",
		Subsystem: "imageloader",
		Name:      "loads_total",
		Help:      "Image loads by result source (cache, network, canceled, error).",
	},
	[]string{"source"},
)

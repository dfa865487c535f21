package imagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Subsystem: "imagecache",
		Name:      "hits_total",
		Help:      "Cache lookups that found an image.",
	})
	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Subsystem: "imagecache",
		Name:      "misses_total",
		Help:      "Cache lookups that found nothing.",
	})
	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Subsystem: "imagecache",
		Name:      "evictions_total",
		Help:      "Entries evicted to stay within capacity.",
	})
	// Reflects the most recently mutated cache when several exist.
	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tripplanner",
		Subsystem: "imagecache",
		Name:      "entries",
		Help:      "Number of cached images.",
	})
)

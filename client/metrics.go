package client

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apierrors "github.com/Kayz-mann/trip-planner/client/internal/errors"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tripplanner_client",
			Name:      "requests_total",
			Help:      "Trip API calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tripplanner_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of trip API calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	templateFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tripplanner_client",
			Name:      "template_fallbacks_total",
			Help:      "Create calls answered with template text and synthesized locally.",
		},
	)
)

// outcomeOf maps an operation result to a low-cardinality label value.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	if apiErr, ok := apierrors.As(err); ok {
		return apiErr.Kind.String()
	}
	return "error"
}

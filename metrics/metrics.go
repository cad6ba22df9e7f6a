// Package metrics registers the engine's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts validation attempts by terminal outcome:
	// "approved" or one of the rejection reasons.
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "validations_total",
		Help:      "Check-in validation attempts by outcome",
	}, []string{"outcome"})

	// DistanceMeters observes the computed participant-to-venue distance for
	// attempts that got far enough to have one.
	DistanceMeters = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkin",
		Name:      "distance_meters",
		Help:      "Computed distance between submitted coordinate and venue",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 5000},
	})

	// DailyCodesIssued counts freshly minted daily code emissions. Idempotent
	// re-reads of an existing day are not counted.
	DailyCodesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "daily_codes_issued_total",
		Help:      "Daily code emissions created",
	})

	// PointsAwarded accumulates ledger increments applied by the engine.
	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkin",
		Name:      "points_awarded_total",
		Help:      "Loyalty points awarded through approved check-ins",
	})
)

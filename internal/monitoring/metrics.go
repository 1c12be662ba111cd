package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bilet_reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bilet_cancellations_total",
			Help: "Bookings cancelled (capacity restored)",
		},
	)

	TransientRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bilet_transient_retries_total",
			Help: "Reservation transactions retried after a storage conflict",
		},
	)
)

// Reservation outcomes.
const (
	OutcomeSuccess              = "success"
	OutcomeInsufficientCapacity = "insufficient_capacity"
	OutcomeCategoryNotFound     = "category_not_found"
	OutcomeError                = "error"
)

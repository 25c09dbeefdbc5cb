package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AvailabilityRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_availability_requests_total",
			Help: "Slot grids computed for availability requests",
		},
	)

	AvailabilityDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_availability_duration_seconds",
			Help:    "Time spent computing one availability grid",
			Buckets: prometheus.DefBuckets,
		},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_created_total",
			Help: "Appointments committed successfully",
		},
	)

	BookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_slot_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken",
		},
	)

	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_appointments_cancelled_total",
			Help: "Appointments cancelled",
		},
	)
)

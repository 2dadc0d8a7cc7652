package zoneengine

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the validator's process-wide Prometheus instruments, kept as
// package-level collectors and registered once by the daemon entrypoint via
// RegisterMetrics.
var (
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liquidity",
		Subsystem: "validator",
		Name:      "commands_total",
		Help:      "Commands processed, labelled by kind and outcome.",
	}, []string{"kind", "outcome"})

	EventsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "liquidity",
		Subsystem: "validator",
		Name:      "events_persisted_total",
		Help:      "Events successfully appended to the journal.",
	})

	ActiveZones = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "liquidity",
		Subsystem: "validator",
		Name:      "active_zones",
		Help:      "Zone validators currently running in this process.",
	})

	NotificationQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "liquidity",
		Subsystem: "validator",
		Name:      "notification_queue_depth",
		Help:      "Pending notifications queued per connected client.",
	}, []string{"zone_id"})
)

// RegisterMetrics registers every collector above with reg. Called once at
// daemon start.
func RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		CommandsTotal,
		EventsPersistedTotal,
		ActiveZones,
		NotificationQueueDepth,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

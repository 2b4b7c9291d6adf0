package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	eventRefreshed       = "refreshed"
	eventSkipped         = "skipped"
	eventAccepted        = "accepted"
	eventRejected        = "rejected"
	eventSaved           = "saved"
	eventDenied          = "denied"
	eventGeneratorFailed = "generator_failed"
	eventVerifierFailed  = "verifier_failed"
)

var questEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quest_lifecycle_events_total",
		Help: "Quest lifecycle transitions and refusals",
	},
	[]string{"event"},
)

func init() {
	prometheus.MustRegister(questEvents)
}

func recordEvent(event string) {
	questEvents.WithLabelValues(event).Inc()
}

// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the service layer.
type Recorder interface {
	RecordFocusSessionCompleted()
	RecordTaskCompleted()
	RecordStudySessionSeconds(seconds int)
	RecordSearchFetch(outcome string)
}

// Collector implements Recorder on a Prometheus registry.
type Collector struct {
	focusSessions prometheus.Counter
	tasksDone     prometheus.Counter
	studySeconds  prometheus.Counter
	searchFetch   *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		focusSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyhub_focus_sessions_completed_total",
			Help: "Completed pomodoro focus sessions.",
		}),
		tasksDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyhub_tasks_completed_total",
			Help: "Tasks marked complete.",
		}),
		studySeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studyhub_study_seconds_recorded_total",
			Help: "Focus seconds recorded into study sessions.",
		}),
		searchFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studyhub_search_fetches_total",
			Help: "Outbound search feed fetches by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.focusSessions,
		c.tasksDone,
		c.studySeconds,
		c.searchFetch,
	)

	return c
}

func (c *Collector) RecordFocusSessionCompleted() {
	c.focusSessions.Inc()
}

func (c *Collector) RecordTaskCompleted() {
	c.tasksDone.Inc()
}

func (c *Collector) RecordStudySessionSeconds(seconds int) {
	if seconds > 0 {
		c.studySeconds.Add(float64(seconds))
	}
}

func (c *Collector) RecordSearchFetch(outcome string) {
	c.searchFetch.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards everything; tests use it.
type Noop struct{}

func (Noop) RecordFocusSessionCompleted()      {}
func (Noop) RecordTaskCompleted()              {}
func (Noop) RecordStudySessionSeconds(int)     {}
func (Noop) RecordSearchFetch(string)          {}

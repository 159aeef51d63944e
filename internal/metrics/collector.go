package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "metzctl"

// Collector tracks key codes sent through the bridges
type Collector struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "total",
			Help:      "Total number of processed remote actions by outcome",
		}, []string{"device", "action", "result"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Time spent delivering a remote action",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"device"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP bridge requests",
		}, []string{"route", "status"}),
	}

	reg.MustRegister(c.commandsTotal, c.commandDuration, c.httpRequests)
	return c
}

// RecordCommand counts one action. An empty kind means the action succeeded.
func (c *Collector) RecordCommand(deviceID, action, kind string, duration time.Duration) {
	result := kind
	if result == "" {
		result = "success"
	}
	c.commandsTotal.WithLabelValues(deviceID, action, result).Inc()
	c.commandDuration.WithLabelValues(deviceID).Observe(duration.Seconds())
}

package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "page_monitor"

var (
	// Registry holds all metrics of a run. It is pushed to a Pushgateway at
	// the end of the run if one is configured.
	Registry = prometheus.NewRegistry()

	// RunsTotal counts monitoring runs by result.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of monitoring runs by result.",
		},
		[]string{"result"},
	)

	// NotificationAttemptsTotal counts delivery attempts by candidate kind,
	// whether certificate verification was disabled and outcome.
	NotificationAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_attempts_total",
			Help:      "Number of notification delivery attempts.",
		},
		[]string{"candidate", "insecure", "outcome"},
	)

	// NotificationsTotal counts finished delivery cycles by outcome.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Number of notification delivery cycles by outcome.",
		},
		[]string{"outcome"},
	)

	// LastRunTimestampSeconds is set to the unix time at the end of a run.
	LastRunTimestampSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished monitoring run.",
		},
	)

	// RunDurationSeconds observes the wall-clock duration of runs.
	RunDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of monitoring runs.",
			Buckets:   []float64{5, 10, 20, 30, 60, 120, 300},
		},
	)
)

func init() {
	Registry.MustRegister(
		RunsTotal,
		NotificationAttemptsTotal,
		NotificationsTotal,
		LastRunTimestampSeconds,
		RunDurationSeconds,
	)
}

// Outcome maps a success flag to a label value.
func Outcome(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

// Push pushes all metrics in Registry to the Pushgateway at url, replacing
// metrics previously pushed for job.
func Push(url, job string) error {
	err := push.New(url, job).Gatherer(Registry).Push()
	if err != nil {
		return errors.Wrapf(err, "failed to push metrics to %s", url)
	}

	return nil
}

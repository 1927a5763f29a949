// Package metrics registers the Prometheus collectors of the signage engine and console.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "signage_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultSkipped = "skipped"
)

var (
	registerOnce sync.Once

	storeCommits       *prometheus.CounterVec
	storeCommitLatency *prometheus.HistogramVec
	storeNotifications *prometheus.CounterVec
	storeSeedFallbacks *prometheus.CounterVec

	rotationAdvances   *prometheus.CounterVec
	nowShowingChanges  *prometheus.CounterVec
	eligibleItems      *prometheus.GaugeVec
	urgentNoticeActive *prometheus.GaugeVec

	heartbeats *prometheus.CounterVec

	renderTotal *prometheus.CounterVec

	textgenRequests *prometheus.CounterVec
	consoleCommands *prometheus.CounterVec
)

// Init registers collectors on the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		storeCommits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_commits_total",
				Help: "Shared-state commits by collection and result",
			},
			[]string{"collection", "result"},
		)
		storeCommitLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "store_commit_latency_seconds",
				Help:    "Shared-state read-modify-write latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		)
		storeNotifications = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_notifications_total",
				Help: "Change notifications received from other processes",
			},
			[]string{"collection", "result"},
		)
		storeSeedFallbacks = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_seed_fallbacks_total",
				Help: "Loads that fell back to the built-in seed",
			},
			[]string{"collection", "reason"},
		)

		rotationAdvances = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rotation_advances_total",
				Help: "Rotation timer fires by device",
			},
			[]string{"device"},
		)
		nowShowingChanges = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "now_showing_changes_total",
				Help: "Reported now-showing changes by device",
			},
			[]string{"device"},
		)
		eligibleItems = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "eligible_items",
				Help: "Size of the device's eligible content list",
			},
			[]string{"device"},
		)
		urgentNoticeActive = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "urgent_override_active",
				Help: "1 when an urgent notice suppresses the normal ticker",
			},
			[]string{"device"},
		)

		heartbeats = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "heartbeats_total",
				Help: "Device heartbeat ticks by result",
			},
			[]string{"result"},
		)

		renderTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "render_total",
				Help: "Screens handed to a render sink by sink and result",
			},
			[]string{"sink", "result"},
		)

		textgenRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "textgen_requests_total",
				Help: "Text generation calls by operation and result",
			},
			[]string{"op", "result"},
		)
		consoleCommands = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "console_commands_total",
				Help: "Console commands by name and result",
			},
			[]string{"command", "result"},
		)

		prometheus.MustRegister(
			storeCommits,
			storeCommitLatency,
			storeNotifications,
			storeSeedFallbacks,
			rotationAdvances,
			nowShowingChanges,
			eligibleItems,
			urgentNoticeActive,
			heartbeats,
			renderTotal,
			textgenRequests,
			consoleCommands,
		)
	})
}

// ObserveCommit records a shared-state commit.
func ObserveCommit(collection, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if storeCommits != nil {
		storeCommits.WithLabelValues(collection, result).Inc()
	}
	if storeCommitLatency != nil {
		storeCommitLatency.WithLabelValues(collection).Observe(duration.Seconds())
	}
}

// IncNotification counts a change notification from another process.
func IncNotification(collection, result string) {
	if result == "" {
		result = resultSuccess
	}
	if storeNotifications != nil {
		storeNotifications.WithLabelValues(collection, result).Inc()
	}
}

// IncSeedFallback counts a load that used the default seed.
func IncSeedFallback(collection, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if storeSeedFallbacks != nil {
		storeSeedFallbacks.WithLabelValues(collection, reason).Inc()
	}
}

// IncRotationAdvance counts a rotation timer fire.
func IncRotationAdvance(device string) {
	if rotationAdvances != nil {
		rotationAdvances.WithLabelValues(device).Inc()
	}
}

// IncNowShowingChange counts a reported now-showing change.
func IncNowShowingChange(device string) {
	if nowShowingChanges != nil {
		nowShowingChanges.WithLabelValues(device).Inc()
	}
}

// SetEligibleItems records the size of a device's eligible list.
func SetEligibleItems(device string, n int) {
	if eligibleItems != nil {
		eligibleItems.WithLabelValues(device).Set(float64(n))
	}
}

// SetUrgentOverride records whether the urgent banner suppresses the ticker.
func SetUrgentOverride(device string, active bool) {
	if urgentNoticeActive == nil {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	urgentNoticeActive.WithLabelValues(device).Set(v)
}

// IncHeartbeat counts a heartbeat tick.
func IncHeartbeat(result string) {
	if result == "" {
		result = resultSuccess
	}
	if heartbeats != nil {
		heartbeats.WithLabelValues(result).Inc()
	}
}

// IncRender counts a screen handed to a sink.
func IncRender(sink, result string) {
	if sink == "" {
		sink = "unknown"
	}
	if renderTotal != nil {
		renderTotal.WithLabelValues(sink, result).Inc()
	}
}

// IncTextgen counts a text generation call.
func IncTextgen(op, result string) {
	if textgenRequests != nil {
		textgenRequests.WithLabelValues(op, result).Inc()
	}
}

// IncConsoleCommand counts a console command.
func IncConsoleCommand(command, result string) {
	if consoleCommands != nil {
		consoleCommands.WithLabelValues(command, result).Inc()
	}
}

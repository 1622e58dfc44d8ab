// internal/alerts/metrics.go

package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carelink_alerts_triggered_total",
		Help: "Total number of emergency alerts raised",
	})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carelink_alert_notifications_total",
		Help: "Caregiver notifications attempted, by channel and outcome",
	}, []string{"channel", "outcome"})
)

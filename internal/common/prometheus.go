package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	EngagementActionTotal      = "engagement_actions_total"
	WebhookDeliveryTotal       = "webhook_deliveries_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		EngagementActionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EngagementActionTotal,
			Help: "Count of likes, reactions and retweets",
		}, []string{"action"}),
		WebhookDeliveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WebhookDeliveryTotal,
			Help: "Count of webhook deliveries",
		}, []string{"result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)

func IncreaseCounter(name string, labels ...string) {
	if counter, ok := PromCounters[name]; ok {
		counter.WithLabelValues(labels...).Inc()
	}
}

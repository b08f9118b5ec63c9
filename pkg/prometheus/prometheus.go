package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ywitter/backend/internal/common"
)

// NewHandler exposes the runtime collectors and the application metrics. Every
// application metric carries a service label so api and webhook workers can
// share one scrape config.
func NewHandler(service string) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registerer := prometheus.WrapRegistererWith(prometheus.Labels{"service": service}, registry)
	for _, counter := range common.PromCounters {
		registerer.MustRegister(counter)
	}

	for _, histogram := range common.PromHistograms {
		registerer.MustRegister(histogram)
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

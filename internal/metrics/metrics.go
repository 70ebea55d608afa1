package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors live in the default registry, registered once at package init.
var (
	ReadingsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "water_readings_published_total",
		Help: "Readings acknowledged by the broker, by topic.",
	}, []string{"topic"})
	PublishErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "water_publish_errors_total",
		Help: "Publish attempts that failed.",
	})

	RecordsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "water_records_consumed_total",
		Help: "Records received by the consumer, by channel.",
	}, []string{"channel"})
	ReceiveErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "water_receive_errors_total",
		Help: "Failed receive attempts in the consumer loop.",
	})

	StreamCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "water_stream_commands_total",
		Help: "Stream commands submitted to ksqlDB, by action and outcome.",
	}, []string{"action", "outcome"})
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncPublished(topic string)  { ReadingsPublishedTotal.WithLabelValues(topic).Inc() }
func IncPublishError()           { PublishErrorsTotal.Inc() }
func IncConsumed(channel string) { RecordsConsumedTotal.WithLabelValues(channel).Inc() }
func IncReceiveError()           { ReceiveErrorsTotal.Inc() }
func IncStreamCommand(action, outcome string) {
	StreamCommandsTotal.WithLabelValues(action, outcome).Inc()
}

// Package metrics: 검색 파이프라인과 웹훅 처리의 Prometheus 지표
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "imas_bot"

// Collector: 봇 지표 모음. sparql.Observer와 search.Recorder를 구현한다.
type Collector struct {
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  prometheus.Histogram
	sparqlRequests *prometheus.CounterVec
	sparqlDuration prometheus.Histogram
	webhookEvents  *prometheus.CounterVec
	replyFailures  prometheus.Counter
}

// NewCollector: 지표를 생성하고 registerer에 등록한다.
func NewCollector(registerer prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Profile searches by mode and outcome.",
		}, []string{"mode", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end profile search latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of profiles returned per search.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		sparqlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sparql_requests_total",
			Help:      "SPARQL endpoint calls by outcome.",
		}, []string{"outcome"}),
		sparqlDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sparql_request_duration_seconds",
			Help:      "SPARQL endpoint latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "LINE webhook events by handling result.",
		}, []string{"result"}),
		replyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_failures_total",
			Help:      "LINE reply API failures.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.searches, c.searchDuration, c.searchResults,
		c.sparqlRequests, c.sparqlDuration,
		c.webhookEvents, c.replyFailures,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ObserveSearch: search.Recorder 구현
func (c *Collector) ObserveSearch(mode, outcome string, results int, elapsed time.Duration) {
	c.searches.WithLabelValues(mode, outcome).Inc()
	c.searchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	c.searchResults.Observe(float64(results))
}

// ObserveSparqlRequest: sparql.Observer 구현
func (c *Collector) ObserveSparqlRequest(outcome string, elapsed time.Duration) {
	c.sparqlRequests.WithLabelValues(outcome).Inc()
	c.sparqlDuration.Observe(elapsed.Seconds())
}

// ObserveWebhookEvent: 이벤트 처리 결과 (handled, duplicate, ignored, failed)
func (c *Collector) ObserveWebhookEvent(result string) {
	c.webhookEvents.WithLabelValues(result).Inc()
}

// ObserveReplyFailure: 회신 실패 1건
func (c *Collector) ObserveReplyFailure() {
	c.replyFailures.Inc()
}

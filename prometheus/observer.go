// Package prometheus provides a metrics Observer for the traversal engine
// built on github.com/prometheus/client_golang.
//
// Each Observer owns its registry, so metrics from one run never leak into
// another. Metrics can be served over HTTP while a crawl runs or written to
// a node_exporter textfile when it ends.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/sitegraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ensure Observer implements sitegraph.Observer.
var _ sitegraph.Observer = (*Observer)(nil)

// Observer records traversal events as Prometheus metrics.
// It is safe for concurrent use.
type Observer struct {
	registry *prometheus.Registry

	PagesDispatched prometheus.Counter
	PagesFetched    *prometheus.CounterVec
	FetchErrors     *prometheus.CounterVec
	FetchDuration   prometheus.Histogram
	ExtractErrors   prometheus.Counter
	LinksFound      prometheus.Counter
	CrawlPages      prometheus.Gauge
	CrawlDuration   prometheus.Gauge
}

// NewObserver creates an Observer with a fresh registry.
func NewObserver() *Observer {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Observer{
		registry: reg,
		PagesDispatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "sitegraph_pages_dispatched_total",
			Help: "Total number of fetches started",
		}),
		PagesFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitegraph_pages_fetched_total",
				Help: "Total number of pages fetched successfully",
			},
			[]string{"status_code"},
		),
		FetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitegraph_fetch_errors_total",
				Help: "Total number of failed fetches",
			},
			[]string{"status_code", "type"},
		),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitegraph_fetch_duration_seconds",
			Help:    "Time taken to download a page",
			Buckets: prometheus.DefBuckets,
		}),
		ExtractErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "sitegraph_extract_errors_total",
			Help: "Total number of pages whose links could not be extracted",
		}),
		LinksFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "sitegraph_links_found_total",
			Help: "Total same-domain links recorded on fetched pages",
		}),
		CrawlPages: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sitegraph_crawl_pages",
			Help: "Number of pages in the site graph of the last completed crawl",
		}),
		CrawlDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sitegraph_crawl_duration_seconds",
			Help: "Wall time of the last completed crawl",
		}),
	}
}

// Observe updates the metrics for e.
func (o *Observer) Observe(e sitegraph.Event) {
	switch e.Type {
	case sitegraph.EventDispatched:
		o.PagesDispatched.Inc()
	case sitegraph.EventFetchSucceeded:
		o.PagesFetched.WithLabelValues(strconv.Itoa(e.Status)).Inc()
		o.FetchDuration.Observe(e.Duration.Seconds())
		o.LinksFound.Add(float64(e.Links))
	case sitegraph.EventFetchFailed:
		status, kind := "none", "transport"
		if e.Status != 0 {
			status, kind = strconv.Itoa(e.Status), "status"
		}
		o.FetchErrors.WithLabelValues(status, kind).Inc()
		o.FetchDuration.Observe(e.Duration.Seconds())
	case sitegraph.EventExtractFailed:
		o.ExtractErrors.Inc()
	case sitegraph.EventCompleted:
		o.CrawlPages.Set(float64(e.Pages))
		o.CrawlDuration.Set(e.Duration.Seconds())
	}
}

// Registry returns the registry holding the Observer's metrics.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler returns an HTTP handler exposing the metrics.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{
		Timeout: 5 * time.Second,
	})
}

// WriteTextfile writes the metrics to path in the text exposition format.
// The file is written atomically.
func (o *Observer) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, o.registry)
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	PositionsIngested prometheus.Counter
	ETARequests       *prometheus.CounterVec // source label: gps|schedule|none
	ScheduleRequests  prometheus.Counter

	Mutations   *prometheus.CounterVec // op label
	StoreErrors *prometheus.CounterVec // op label: load|save

	LoadDuration prometheus.Histogram
	SaveDuration prometheus.Histogram

	FixFresh prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		PositionsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttleroute_positions_ingested_total",
			Help: "Total vehicle position fixes ingested.",
		}),
		ETARequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttleroute_eta_requests_total",
			Help: "Total ETA requests by estimate source.",
		}, []string{"source"}),
		ScheduleRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttleroute_schedule_requests_total",
			Help: "Total day-schedule requests.",
		}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttleroute_mutations_total",
			Help: "Total state mutations by operation.",
		}, []string{"op"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shuttleroute_store_errors_total",
			Help: "Total schedule store failures by operation.",
		}, []string{"op"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttleroute_store_load_duration_seconds",
			Help:    "Duration of schedule document loads.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttleroute_store_save_duration_seconds",
			Help:    "Duration of schedule document saves.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		FixFresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttleroute_fix_fresh",
			Help: "1 if the retained vehicle fix was fresh at last read, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.PositionsIngested, c.ETARequests, c.ScheduleRequests,
		c.Mutations, c.StoreErrors,
		c.LoadDuration, c.SaveDuration,
		c.FixFresh,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
// The caller owns shutdown.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}

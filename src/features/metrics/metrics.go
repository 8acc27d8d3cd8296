package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge collectors, registered on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	TagLoads       *prometheus.CounterVec // result: playing, stopped, error
	ArtResolutions *prometheus.CounterVec // source: lastfm, local, none
	WatchEvents    *prometheus.CounterVec // file, outcome: handled, debounced
	Commands       *prometheus.CounterVec // command
	LastFMDuration prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		TagLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beebridge_tag_loads_total",
			Help: "Tags file loads by result.",
		}, []string{"result"}),
		ArtResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beebridge_art_resolutions_total",
			Help: "Cover art resolutions by source.",
		}, []string{"source"}),
		WatchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beebridge_watch_events_total",
			Help: "Metadata file events by file and outcome.",
		}, []string{"file", "outcome"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beebridge_commands_total",
			Help: "Playback commands relayed as hotkeys.",
		}, []string{"command"}),
		LastFMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "beebridge_lastfm_request_seconds",
			Help:    "Duration of Last.fm album art lookups.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
		}),
	}
	reg.MustRegister(
		m.TagLoads,
		m.ArtResolutions,
		m.WatchEvents,
		m.Commands,
		m.LastFMDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

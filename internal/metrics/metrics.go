package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	// OAuth connect flow, by outcome
	OAuthCallbacks *prometheus.CounterVec
	// LinkedIn publish attempts, by outcome
	Publishes *prometheus.CounterVec
	// Upstream LinkedIn API latency, by operation
	LinkedInDuration *prometheus.HistogramVec
	// LLM generations, by provider and outcome
	Generations *prometheus.CounterVec
	// Content score distribution
	Scores prometheus.Histogram
}

// New registers every collector on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		OAuthCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkedin_oauth_callbacks_total",
			Help: "LinkedIn OAuth callbacks handled",
		}, []string{"outcome"}),
		Publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkedin_publishes_total",
			Help: "Posts published to LinkedIn",
		}, []string{"outcome"}),
		LinkedInDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "linkedin_api_duration_seconds",
			Help:    "LinkedIn API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "AI text generations",
		}, []string{"provider", "outcome"}),
		Scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "content_score",
			Help:    "Scores returned by the content scorer",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OAuthCallbacks,
		m.Publishes,
		m.LinkedInDuration,
		m.Generations,
		m.Scores,
	)
	return m
}

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes scan metrics to Prometheus.
type Recorder struct {
	analysed     *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	qualified    *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	fetches      *prometheus.CounterVec
	scanDuration prometheus.Histogram
	lastScore    *prometheus.GaugeVec
}

// New registers the scanner metrics on reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		analysed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clarity_symbols_analysed_total",
			Help: "Symbols run through the indicator and checklist pipeline",
		}, []string{"market"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clarity_symbols_skipped_total",
			Help: "Symbols dropped before evaluation",
		}, []string{"market", "reason"}),
		qualified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clarity_symbols_qualified_total",
			Help: "Symbols whose score reached the pool floor",
		}, []string{"market", "signal"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clarity_fallbacks_total",
			Help: "Times a component fell back to a substitute value",
		}, []string{"component"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clarity_history_fetches_total",
			Help: "Daily history fetches by provider and outcome",
		}, []string{"source", "outcome"}),
		scanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clarity_scan_duration_seconds",
			Help:    "Wall time of a full scan",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		lastScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clarity_last_score",
			Help: "Most recent composite score per symbol",
		}, []string{"market", "symbol"}),
	}
}

func (r *Recorder) SymbolAnalysed(market string) {
	if r == nil {
		return
	}
	r.analysed.WithLabelValues(market).Inc()
}

func (r *Recorder) SymbolSkipped(market, reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(market, reason).Inc()
}

// SymbolScored records a score, and counts the symbol as qualified when it made the pool.
func (r *Recorder) SymbolScored(market, symbol, signal string, score int, qualified bool) {
	if r == nil {
		return
	}
	r.lastScore.WithLabelValues(market, symbol).Set(float64(score))
	if qualified {
		r.qualified.WithLabelValues(market, signal).Inc()
	}
}

// FallbackUsed satisfies fallback.Observer.
func (r *Recorder) FallbackUsed(component string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(component).Inc()
}

func (r *Recorder) HistoryFetched(source string, ok bool) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "empty"
	}
	r.fetches.WithLabelValues(source, outcome).Inc()
}

func (r *Recorder) ScanFinished(d time.Duration) {
	if r == nil {
		return
	}
	r.scanDuration.Observe(d.Seconds())
}

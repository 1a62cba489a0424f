package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration     *prom.HistogramVec
	runDuration       prom.Histogram
	stageResults      *prom.CounterVec
	runOutcomes       *prom.CounterVec
	compileDuration   *prom.HistogramVec
	variantsWritten   prom.Counter
	byproductsRemoved prom.Counter
	levels            prom.Gauge
}

// NewPrometheusRecorder constructs and registers the multitex metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "multitex",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual run stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "multitex",
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "multitex",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "multitex",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"result"}),
		compileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "multitex",
			Name:      "compile_duration_seconds",
			Help:      "Duration of external compiler invocations",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"result"}),
		variantsWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "multitex",
			Name:      "variants_written_total",
			Help:      "Generated variant files written",
		}),
		byproductsRemoved: prom.NewCounter(prom.CounterOpts{
			Namespace: "multitex",
			Name:      "byproducts_removed_total",
			Help:      "Compiler byproduct files removed by cleanup",
		}),
		levels: prom.NewGauge(prom.GaugeOpts{
			Namespace: "multitex",
			Name:      "levels",
			Help:      "Distinct levels discovered in the last run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcomes,
		pr.compileDuration, pr.variantsWritten, pr.byproductsRemoved, pr.levels)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := ResultFailed
	if success {
		res = ResultSuccess
	}
	p.compileDuration.WithLabelValues(string(res)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncVariantsWritten(n int) {
	if p == nil {
		return
	}
	p.variantsWritten.Add(float64(n))
}

func (p *PrometheusRecorder) IncByproductsRemoved(n int) {
	if p == nil {
		return
	}
	p.byproductsRemoved.Add(float64(n))
}

func (p *PrometheusRecorder) SetLevels(n int) {
	if p == nil {
		return
	}
	p.levels.Set(float64(n))
}

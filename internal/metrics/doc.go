// Package metrics provides observability hooks for multitex runs.
//
// Components receive a Recorder and default to NoopRecorder, so recording
// needs no nil checks. The watch command swaps in a PrometheusRecorder and
// serves it over HTTP with HTTPHandler.
//
//	reg := prometheus.NewRegistry()
//	runner := pipeline.NewRunner(...).WithRecorder(metrics.NewPrometheusRecorder(reg))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics

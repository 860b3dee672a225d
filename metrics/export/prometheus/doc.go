// Package prometheus provides Prometheus collectors for webguard metrics.
//
// [NewPrometheusExporter] accepts a [webguard.Engine] and exposes an [http.Handler]
// that renders all webguard counters and histograms in Prometheus text exposition
// format. Counter names are prefixed webguard_*_total; the single histogram is
// webguard_authorize_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus

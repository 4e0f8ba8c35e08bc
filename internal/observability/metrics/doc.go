// Package metrics provides Prometheus metrics for pipeline runs.
//
// The list builder is a one-shot batch job, so metrics live on a private
// registry instead of the default one and are exported, when requested, as a
// textfile for the node_exporter textfile collector.
//
// Example usage:
//
//	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
//	m.RecordEntriesParsed(len(entries))
//	m.RecordRun("success", time.Since(start))
//	_ = m.WriteTextfile("/var/lib/node_exporter/cotw.prom")
package metrics

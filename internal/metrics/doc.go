// Package metrics records build pipeline observations.
//
// Components receive a Recorder and never check for nil: the default is
// NoopRecorder. When the project configuration names a metrics textfile the
// CLI swaps in a PrometheusRecorder and writes the gathered families to that
// file after the pipeline finishes, for pickup by a node_exporter textfile
// collector on the build agent.
package metrics
